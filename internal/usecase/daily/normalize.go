package daily

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeText приводит ключ дедупликации к канонической форме:
// нижний регистр, всё кроме латинских букв и цифр выбрасывается.
// "Hello, World!" и "helloworld" дают один ключ. Функция идемпотентна.
func NormalizeText(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}
