package domain

import "time"

// DateKeyLayout — формат ключа дневного кэша.
const DateKeyLayout = "2006-01-02"

var istLocation = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// IST не имеет переходов, фиксированное смещение эквивалентно.
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// IST возвращает часовой пояс India Standard Time.
func IST() *time.Location {
	return istLocation
}

// NowIST возвращает текущее время в IST.
func NowIST() time.Time {
	return time.Now().In(istLocation)
}

// DateKey форматирует дату в ключ кэша YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.In(istLocation).Format(DateKeyLayout)
}
