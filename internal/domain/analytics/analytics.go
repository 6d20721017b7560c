// Package analytics агрегирует результаты тестов для страницы аналитики.
// Все функции чистые и пересчитываются при каждой смене фильтра.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
)

// All значение фильтра, которому соответствует любая запись
const All = "all"

// NoGroup подпись для результатов без группы в распределении оценок
const NoGroup = "Без групи"

const (
	passThreshold   = 0.6
	defaultMaxScore = 100
	dateLayout      = "02.01.2006"
)

type SubjectStats struct {
	Subject       string
	AverageScore  float64
	TotalAttempts int
	MaxScore      int
	Percentage    int
}

type GroupStats struct {
	Group          string
	AverageScore   float64
	StudentsPassed int
	TotalStudents  int
	PassRate       int
}

// GradeDistribution доли оценок в группе, проценты с одним знаком после запятой
type GradeDistribution struct {
	Group          string
	AveragePercent float64
	Excellent      float64
	Good           float64
	Satisfactory   float64
	Poor           float64
}

type ProgressPoint struct {
	Attempt    int
	Subject    string
	Title      string
	Score      int
	MaxScore   int
	Percentage int
	Date       string
}

// Summary итоговые карточки под графиками
type Summary struct {
	Attempts     int
	AverageScore float64
	BestScore    int
	ActiveGroups int
}

// round повторяет округление "половина вверх"
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

func round1(x float64) float64 {
	return round(x*10) / 10
}

// Subjects список предметов для фильтра: All и уникальные предметы по алфавиту
func Subjects(results []model.TestResult) []string {
	seen := make(map[string]struct{})
	subjects := make([]string, 0)
	for _, r := range results {
		if _, ok := seen[r.Subject]; ok {
			continue
		}
		seen[r.Subject] = struct{}{}
		subjects = append(subjects, r.Subject)
	}
	sort.Strings(subjects)
	return append([]string{All}, subjects...)
}

// Groups список непустых групп по алфавиту
func Groups(results []model.TestResult) []string {
	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, r := range results {
		if strings.TrimSpace(r.StudentGroup) == "" {
			continue
		}
		if _, ok := seen[r.StudentGroup]; ok {
			continue
		}
		seen[r.StudentGroup] = struct{}{}
		groups = append(groups, r.StudentGroup)
	}
	sort.Strings(groups)
	return groups
}

// Filter отбирает результаты по предмету и, для преподавателя, по группе
func Filter(results []model.TestResult, subject, group string, isTeacher bool) []model.TestResult {
	filtered := make([]model.TestResult, 0, len(results))
	for _, r := range results {
		if subject != "" && subject != All && r.Subject != subject {
			continue
		}
		if isTeacher && group != "" && group != All && r.StudentGroup != group {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// BySubject статистика по предметам в порядке первого появления.
// Максимальный балл предмета берется из первой записи.
func BySubject(results []model.TestResult) []SubjectStats {
	type acc struct {
		total, count, maxScore int
	}
	order := make([]string, 0)
	accs := make(map[string]*acc)
	for _, r := range results {
		a, ok := accs[r.Subject]
		if !ok {
			a = &acc{maxScore: r.MaxScore}
			accs[r.Subject] = a
			order = append(order, r.Subject)
		}
		a.total += r.Score
		a.count++
	}

	stats := make([]SubjectStats, 0, len(order))
	for _, subject := range order {
		a := accs[subject]
		avg := float64(a.total) / float64(a.count)
		percentage := 0
		if a.maxScore > 0 {
			percentage = int(round(avg / float64(a.maxScore) * 100))
		}
		stats = append(stats, SubjectStats{
			Subject:       subject,
			AverageScore:  round1(avg),
			TotalAttempts: a.count,
			MaxScore:      a.maxScore,
			Percentage:    percentage,
		})
	}
	return stats
}

// ByGroup статистика по группам для преподавателя. Записи без группы пропускаются,
// зачет при баллах >= 60% от максимума (100, если максимум не задан).
func ByGroup(results []model.TestResult) []GroupStats {
	type acc struct {
		total, count, passed int
	}
	order := make([]string, 0)
	accs := make(map[string]*acc)
	for _, r := range results {
		group := strings.TrimSpace(r.StudentGroup)
		if group == "" {
			continue
		}
		a, ok := accs[group]
		if !ok {
			a = &acc{}
			accs[group] = a
			order = append(order, group)
		}
		maxScore := r.MaxScore
		if maxScore <= 0 {
			maxScore = defaultMaxScore
		}
		a.total += r.Score
		a.count++
		if float64(r.Score) >= float64(maxScore)*passThreshold {
			a.passed++
		}
	}

	stats := make([]GroupStats, 0, len(order))
	for _, group := range order {
		a := accs[group]
		stats = append(stats, GroupStats{
			Group:          group,
			AverageScore:   round1(float64(a.total) / float64(a.count)),
			StudentsPassed: a.passed,
			TotalStudents:  a.count,
			PassRate:       int(round(float64(a.passed) / float64(a.count) * 100)),
		})
	}
	return stats
}

// Grades распределение оценок по группам: >=90 отлично, >=75 хорошо, >=60 удовлетворительно
func Grades(results []model.TestResult) []GradeDistribution {
	type acc struct {
		percents                              float64
		count                                 int
		excellent, good, satisfactory, poorly int
	}
	order := make([]string, 0)
	accs := make(map[string]*acc)
	for _, r := range results {
		group := strings.TrimSpace(r.StudentGroup)
		if group == "" {
			group = NoGroup
		}
		a, ok := accs[group]
		if !ok {
			a = &acc{}
			accs[group] = a
			order = append(order, group)
		}
		maxScore := r.MaxScore
		if maxScore <= 0 {
			maxScore = defaultMaxScore
		}
		percent := float64(r.Score) / float64(maxScore) * 100
		a.percents += percent
		a.count++
		switch {
		case percent >= 90:
			a.excellent++
		case percent >= 75:
			a.good++
		case percent >= 60:
			a.satisfactory++
		default:
			a.poorly++
		}
	}

	dist := make([]GradeDistribution, 0, len(order))
	for _, group := range order {
		a := accs[group]
		share := func(n int) float64 {
			return round1(float64(n) / float64(a.count) * 100)
		}
		dist = append(dist, GradeDistribution{
			Group:          group,
			AveragePercent: round1(a.percents / float64(a.count)),
			Excellent:      share(a.excellent),
			Good:           share(a.good),
			Satisfactory:   share(a.satisfactory),
			Poor:           share(a.poorly),
		})
	}
	return dist
}

// Progress динамика студента: попытки по возрастанию времени завершения
// (или окончания теста). Неразобранное время считается нулевым и идет первым.
func Progress(results []model.TestResult, loc *time.Location) []ProgressPoint {
	type item struct {
		r  model.TestResult
		at time.Time
		ok bool
	}
	items := make([]item, 0, len(results))
	for _, r := range results {
		raw := r.CompletedAt
		if raw == "" {
			raw = r.EndTime
		}
		at, ok := testsService.ParseTimestamp(raw)
		items = append(items, item{r: r, at: at, ok: ok})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return timeKey(items[i].at, items[i].ok) < timeKey(items[j].at, items[j].ok)
	})

	points := make([]ProgressPoint, 0, len(items))
	for i, it := range items {
		percentage := 0
		if it.r.MaxScore > 0 {
			percentage = int(round(float64(it.r.Score) / float64(it.r.MaxScore) * 100))
		}
		date := ""
		if it.ok {
			at := it.at
			if loc != nil {
				at = at.In(loc)
			}
			date = at.Format(dateLayout)
		}
		points = append(points, ProgressPoint{
			Attempt:    i + 1,
			Subject:    it.r.Subject,
			Title:      it.r.Title,
			Score:      it.r.Score,
			MaxScore:   it.r.MaxScore,
			Percentage: percentage,
			Date:       date,
		})
	}
	return points
}

func timeKey(t time.Time, ok bool) int64 {
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

// Summarize карточки: число попыток, средний балл по предметам, лучший результат,
// число групп (только для преподавателя)
func Summarize(results []model.TestResult, isTeacher bool) Summary {
	s := Summary{Attempts: len(results)}

	subjects := BySubject(results)
	if len(subjects) > 0 {
		var sum float64
		for _, st := range subjects {
			sum += st.AverageScore
		}
		s.AverageScore = round1(sum / float64(len(subjects)))
	}

	for _, r := range results {
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
	}

	if isTeacher {
		s.ActiveGroups = len(ByGroup(results))
	}
	return s
}
