package dto

// PPECreateRequest 员工申领防护用品
type PPECreateRequest struct {
	TypeID string `json:"typeId" binding:"required"`
	Size   string `json:"size"`
}
