package mailer

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/CloudyKit/jet/v6"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

// 模板占位符
const (
	PlaceholderEmployee   = "{empleado}"
	PlaceholderType       = "{tipo}"
	PlaceholderDates      = "{fechas}"
	PlaceholderReason     = "{motivo}"
	PlaceholderSupervisor = "{supervisor}"
	PlaceholderHours      = "{saldo_horas}"
	PlaceholderComment    = "{comentario_admin}"
)

// Placeholders 返回可在模板中使用的全部占位符
func Placeholders() []string {
	return []string{
		PlaceholderEmployee, PlaceholderType, PlaceholderDates, PlaceholderReason,
		PlaceholderSupervisor, PlaceholderHours, PlaceholderComment,
	}
}

// Interpolate 替换文本中的占位符，未提供值的占位符替换为空串
func Interpolate(text string, values map[string]string) string {
	pairs := make([]string, 0, len(Placeholders())*2)
	for _, p := range Placeholders() {
		pairs = append(pairs, p, values[p])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8">
  <title>{{ subject }}</title>
</head>
<body style="margin:0;padding:0;background:#f1f5f9;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:24px;">
        <table width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;">
          <tr>
            <td style="padding:20px 24px;background:#0f172a;color:#ffffff;font-size:18px;border-radius:8px 8px 0 0;">
              {{ portal }}
            </td>
          </tr>
          <tr>
            <td style="padding:24px;color:#1e293b;font-size:14px;line-height:1.6;">
              {{ body | raw }}
            </td>
          </tr>
          {{ if footer != "" }}
          <tr>
            <td style="padding:16px 24px;color:#64748b;font-size:12px;">
              {{ footer }}
            </td>
          </tr>
          {{ end }}
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// Layout 将纯文本正文套入门户 HTML 布局并压缩
type Layout struct {
	set    *jet.Set
	min    *minify.M
	portal string
}

func NewLayout(portal string) *Layout {
	loader := jet.NewInMemLoader()
	loader.Set("/layout.jet", layoutTemplate)

	m := minify.New()
	m.AddFunc("text/html", minhtml.Minify)

	return &Layout{set: jet.NewSet(loader), min: m, portal: portal}
}

// Render 生成 HTML 正文：文本先转义，换行转换为 <br>
func (l *Layout) Render(subject, text, footer string) (string, error) {
	tmpl, err := l.set.GetTemplate("/layout.jet")
	if err != nil {
		return "", fmt.Errorf("加载邮件布局失败: %w", err)
	}

	vars := make(jet.VarMap)
	vars.Set("subject", subject)
	vars.Set("portal", l.portal)
	vars.Set("body", TextToHTML(text))
	vars.Set("footer", footer)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars, nil); err != nil {
		return "", fmt.Errorf("渲染邮件布局失败: %w", err)
	}

	out, err := l.min.String("text/html", buf.String())
	if err != nil {
		return buf.String(), nil
	}
	return out, nil
}

// TextToHTML 转义纯文本并保留换行
func TextToHTML(text string) string {
	escaped := html.EscapeString(strings.TrimSpace(text))
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}
