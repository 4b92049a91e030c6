package people

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
)

// Loader читает дни рождения и годовщины из плоских файлов.
// Файлы перечитываются на каждый вызов: правки применяются без перезапуска.
type Loader struct {
	birthdaysPath     string
	anniversariesPath string
	log               zerolog.Logger
}

var _ domain.PeopleSource = (*Loader)(nil)

// NewLoader создаёт загрузчик.
func NewLoader(birthdaysPath, anniversariesPath string, logger zerolog.Logger) *Loader {
	return &Loader{birthdaysPath: birthdaysPath, anniversariesPath: anniversariesPath, log: logger}
}

var nameSeparator = regexp.MustCompile(`\s*&\s*|\s*-\s*|\s+and\s+`)

// parseDate разбирает DD/MM[/YYYY]. Недостающие день или месяц — брак строки.
func parseDate(s string) (day, month int, year *int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 {
		return 0, 0, nil, false
	}
	d, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errD != nil || errM != nil || d == 0 || m == 0 {
		return 0, 0, nil, false
	}
	if len(parts) >= 3 {
		if y, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			year = &y
		}
	}
	return d, m, year, true
}

// Birthdays разбирает файл дней рождения: одна строка Name:DD/MM[/YYYY].
// Заголовок и испорченные строки пропускаются.
func (l *Loader) Birthdays() []domain.Birthday {
	var out []domain.Birthday
	l.eachLine(l.birthdaysPath, "name:birthday", func(line string) {
		name, date, found := strings.Cut(line, ":")
		if !found {
			return
		}
		name = strings.TrimSpace(name)
		day, month, year, ok := parseDate(date)
		if name == "" || !ok {
			l.log.Debug().Str("line", line).Msg("people: пропущена строка дня рождения")
			return
		}
		out = append(out, domain.Birthday{Name: name, Day: day, Month: month, Year: year})
	})
	return out
}

// anniversaryRecord — разобранная строка файла годовщин.
type anniversaryRecord struct {
	Name1, Name2 string
	Day, Month   int
	Year         *int
}

func (l *Loader) anniversaries() []anniversaryRecord {
	var out []anniversaryRecord
	l.eachLine(l.anniversariesPath, "names:anniversary", func(line string) {
		left, date, found := strings.Cut(line, ":")
		if !found {
			return
		}
		names := nameSeparator.Split(strings.TrimSpace(left), 2)
		if len(names) < 2 {
			return
		}
		n1 := strings.TrimSpace(names[0])
		n2 := strings.TrimSpace(names[1])
		day, month, year, ok := parseDate(date)
		if n1 == "" || n2 == "" || !ok {
			l.log.Debug().Str("line", line).Msg("people: пропущена строка годовщины")
			return
		}
		out = append(out, anniversaryRecord{Name1: n1, Name2: n2, Day: day, Month: month, Year: year})
	})
	return out
}

func (l *Loader) eachLine(path, headerPrefix string, fn func(line string)) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Error().Err(err).Str("path", path).Msg("people: не удалось открыть файл")
		}
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(strings.ToLower(line), headerPrefix) {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		l.log.Error().Err(err).Str("path", path).Msg("people: ошибка чтения файла")
	}
}

// BirthdaysOn возвращает имена именинников на дату.
func (l *Loader) BirthdaysOn(t time.Time) []string {
	day, month := t.Day(), int(t.Month())
	var names []string
	for _, b := range l.Birthdays() {
		if b.Day == day && b.Month == month {
			names = append(names, b.Name)
		}
	}
	return names
}

// AnniversariesOn возвращает сегодняшние годовщины.
// Число лет считается только для правдоподобного года, не превышающего текущий.
func (l *Loader) AnniversariesOn(t time.Time) []domain.Anniversary {
	day, month, nowYear := t.Day(), int(t.Month()), t.Year()
	var out []domain.Anniversary
	for _, a := range l.anniversaries() {
		if a.Day != day || a.Month != month {
			continue
		}
		var years *int
		if a.Year != nil && *a.Year > 1900 && nowYear >= *a.Year {
			diff := nowYear - *a.Year
			years = &diff
		}
		out = append(out, domain.Anniversary{Names: []string{a.Name1, a.Name2}, Year: a.Year, Years: years})
	}
	return out
}
