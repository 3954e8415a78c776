package format

const (
	ansiReset = "\x1b[0m"
	ansiTool  = "\x1b[38;5;207m"
	ansiDone  = "\x1b[38;5;44m"
)

func colorize(enabled bool, code string, text string) string {
	if !enabled {
		return text
	}
	return code + text + ansiReset
}
