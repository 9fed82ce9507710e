package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/aline/internal/transport/dialog"
)

func TestRender(t *testing.T) {
	assert.Equal(t, "Aline: 2+2 é igual a 4.", render(dialog.Response{Text: "2+2 é igual a 4."}))

	out := render(dialog.Response{Text: "**Pergunta pendente**  ›  `tau`", Markdown: true})
	assert.Contains(t, out, "Pergunta pendente")
	assert.Contains(t, out, "tau")
	assert.NotContains(t, out, "`")
}
