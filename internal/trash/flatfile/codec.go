package flatfile

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", `\n`)

func escape(s string) string {
	return escaper.Replace(s)
}

// splitFields splits a record line on unescaped pipes and unescapes each field
func splitFields(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			switch line[i] {
			case 'n':
				cur.WriteByte('\n')
			default:
				cur.WriteByte(line[i])
			}
		case c == '|':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
