package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"ame_support_backend/internal/models"

	"gorm.io/gorm"
)

const topKeywordLimit = 20

var analyticsPeriods = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

var keywordStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the and you are for not this with have that will your can but all she was
		they one had how said each which their time know want very when much some take into more only
		other new also well way may say use her many than see him two could over think about who oil sit
		now find long down day did get has his man old boy its let put too`) {
		keywordStopWords[w] = struct{}{}
	}
}

type AnalyticsOverview struct {
	TotalSessions             int64   `json:"totalSessions"`
	TotalMessages             int64   `json:"totalMessages"`
	AverageMessagesPerSession float64 `json:"averageMessagesPerSession"`
	Period                    string  `json:"period"`
}

type SeverityCount struct {
	Severity models.Severity `json:"severity"`
	Count    int64           `json:"count"`
}

type DailyCount struct {
	Date     string `json:"date"`
	Sessions int64  `json:"sessions"`
}

type TrainingStats struct {
	Total      int64 `json:"total"`
	Approved   int64 `json:"approved"`
	Pending    int64 `json:"pending"`
	TotalUsage int64 `json:"totalUsage"`
}

type ResourceCategoryStats struct {
	Category models.ResourceCategory `json:"category"`
	Count    int64                   `json:"count"`
	Verified int64                   `json:"verified"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

type AnalyticsSummary struct {
	Overview             AnalyticsOverview       `json:"overview"`
	SeverityDistribution []SeverityCount         `json:"severityDistribution"`
	DailyStats           []DailyCount            `json:"dailyStats"`
	Training             TrainingStats           `json:"training"`
	Resources            []ResourceCategoryStats `json:"resources"`
	TopKeywords          []KeywordCount          `json:"topKeywords"`
}

type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

// NormalizePeriod maps anything other than 7d, 30d or 90d to 7d.
func NormalizePeriod(period string) (string, int) {
	if days, ok := analyticsPeriods[period]; ok {
		return period, days
	}
	return "7d", 7
}

// Summary aggregates dashboard statistics for sessions created within period.
// Training and resource figures cover the whole collection.
func (s *AnalyticsService) Summary(ctx context.Context, period string) (*AnalyticsSummary, error) {
	period, days := NormalizePeriod(period)
	since := s.now().AddDate(0, 0, -days)
	db := s.db.WithContext(ctx)

	summary := &AnalyticsSummary{}
	summary.Overview.Period = period

	if err := db.Model(&models.ChatSession{}).Where("created_at >= ?", since).Count(&summary.Overview.TotalSessions).Error; err != nil {
		return nil, err
	}

	periodTurns := db.Model(&models.Turn{}).
		Joins("JOIN chat_sessions ON chat_sessions.id = turns.chat_session_id").
		Where("chat_sessions.created_at >= ?", since)

	if err := periodTurns.Session(&gorm.Session{}).Count(&summary.Overview.TotalMessages).Error; err != nil {
		return nil, err
	}
	summary.Overview.AverageMessagesPerSession = averagePerSession(summary.Overview.TotalMessages, summary.Overview.TotalSessions)

	summary.SeverityDistribution = []SeverityCount{}
	err := periodTurns.Session(&gorm.Session{}).
		Select("turns.severity AS severity, COUNT(*) AS count").
		Where("turns.severity <> ''").
		Group("turns.severity").
		Order("count desc").
		Scan(&summary.SeverityDistribution).Error
	if err != nil {
		return nil, err
	}

	var createdAt []time.Time
	if err := db.Model(&models.ChatSession{}).Where("created_at >= ?", since).Pluck("created_at", &createdAt).Error; err != nil {
		return nil, err
	}
	summary.DailyStats = dailyCounts(createdAt)

	err = db.Model(&models.TrainingData{}).
		Select("COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN is_approved THEN 1 ELSE 0 END), 0) AS approved, " +
			"COALESCE(SUM(CASE WHEN is_approved THEN 0 ELSE 1 END), 0) AS pending, " +
			"COALESCE(SUM(usage_count), 0) AS total_usage").
		Scan(&summary.Training).Error
	if err != nil {
		return nil, err
	}

	summary.Resources = []ResourceCategoryStats{}
	err = db.Model(&models.Resource{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(CASE WHEN is_verified THEN 1 ELSE 0 END), 0) AS verified").
		Group("category").
		Order("count desc").
		Scan(&summary.Resources).Error
	if err != nil {
		return nil, err
	}

	var contents []string
	if err := periodTurns.Session(&gorm.Session{}).Pluck("turns.content", &contents).Error; err != nil {
		return nil, err
	}
	summary.TopKeywords = topKeywords(contents, topKeywordLimit)

	return summary, nil
}

func averagePerSession(messages, sessions int64) float64 {
	if sessions == 0 {
		return 0
	}
	return math.Round(float64(messages)/float64(sessions)*100) / 100
}

// dailyCounts groups timestamps by UTC calendar day, oldest first.
func dailyCounts(times []time.Time) []DailyCount {
	counts := map[string]int64{}
	for _, t := range times {
		counts[t.UTC().Format("2006-01-02")]++
	}
	out := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DailyCount{Date: date, Sessions: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func isKeyword(word string) bool {
	if len(word) < 3 {
		return false
	}
	for _, r := range word {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// topKeywords counts alphabetic words of three or more letters, lower-cased,
// skipping stop words. Ties are broken alphabetically.
func topKeywords(contents []string, limit int) []KeywordCount {
	counts := map[string]int64{}
	for _, content := range contents {
		for _, word := range strings.Fields(content) {
			if !isKeyword(word) {
				continue
			}
			word = strings.ToLower(word)
			if _, stop := keywordStopWords[word]; stop {
				continue
			}
			counts[word]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, KeywordCount{Keyword: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
