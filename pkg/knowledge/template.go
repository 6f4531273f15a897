package knowledge

import (
	"fmt"
	"strings"

	"github.com/aretw0/spire/pkg/domain"
)

// Render substitutes {name} placeholders in tpl with vars by exact name.
// "{{" and "}}" produce literal braces. A placeholder without a value, or an unbalanced
// brace, fails with domain.ErrTemplate.
func Render(tpl string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tpl))

	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch {
		case c == '{' && i+1 < len(tpl) && tpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tpl) && tpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed placeholder at byte %d: %w", i, domain.ErrTemplate)
			}
			name := tpl[i+1 : i+1+end]
			val, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("no value for {%s}: %w", name, domain.ErrTemplate)
			}
			b.WriteString(val)
			i += end + 1
		case c == '}':
			return "", fmt.Errorf("single '}' at byte %d: %w", i, domain.ErrTemplate)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
