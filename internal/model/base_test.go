package model

import (
	"reflect"
	"testing"
)

func TestStringArray_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want StringArray
	}{
		{"空数组", "{}", StringArray{}},
		{"普通元素", []byte("{u-1,u-2}"), StringArray{"u-1", "u-2"}},
		{"带引号与逗号", `{"a,b","c \"d\""}`, StringArray{"a,b", `c "d"`}},
		{"NULL", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringArray
			if err := got.Scan(tt.src); err != nil {
				t.Fatalf("Scan 失败: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("期望 %#v，实际 %#v", tt.want, got)
			}
		})
	}
}

func TestStringArray_ScanInvalid(t *testing.T) {
	var a StringArray
	if err := a.Scan("u-1,u-2"); err == nil {
		t.Error("缺少花括号应返回错误")
	}
	if err := a.Scan(42); err == nil {
		t.Error("不支持的类型应返回错误")
	}
}

func TestStringArray_ValueRoundTrip(t *testing.T) {
	in := StringArray{"u-1", `x"y`, "a,b"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}
	var out StringArray
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("往返不一致: %#v != %#v", in, out)
	}
}
