package leaderboard

import (
	"time"

	"github.com/samber/lo"

	"github.com/0xmhha/year-in-code/pkg/adapter"
	"github.com/0xmhha/year-in-code/pkg/ranking"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// RequestFromStats builds a submission from a GitHub report.
func RequestFromStats(username, avatarURL string, s *stats.YearStats) SubmitRequest {
	years := 0
	if s.YearsOfCoding != nil {
		years = *s.YearsOfCoding
	}
	var stars int64
	if s.TotalStars != nil {
		stars = *s.TotalStars
	}
	contributions := s.TotalTokens

	languages := lo.FilterMap(s.TopModels, func(e ranking.Entry, _ int) (string, bool) {
		return e.Label, e.Label != "" && e.Label != adapter.NoLanguageLabel
	})

	req := SubmitRequest{
		Username:           username,
		AvatarURL:          avatarURL,
		Year:               s.Year,
		YearsInCode:        &years,
		TotalContributions: &contributions,
		LongestStreak:      s.LongestStreak,
		TotalStars:         stars,
		TopLanguages:       languages,
	}
	if s.FirstContributionDate != nil {
		if t, err := time.Parse("2006-01-02", *s.FirstContributionDate); err == nil {
			req.FirstCommitDate = &t
		}
	}
	return req
}

// AvatarURL returns the public avatar location of a GitHub user.
func AvatarURL(username string) string {
	return "https://github.com/" + username + ".png"
}
