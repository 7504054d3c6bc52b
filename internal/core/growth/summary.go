package growth

// Record is a session record with its children, as read back for a summary.
type Record struct {
	SanityGained     int
	SanityLost       int
	ExperienceGained int
	Skills           []SkillGrowth
}

// SkillTotals is the per-skill part of a summary.
type SkillTotals struct {
	TotalGrowth      int `json:"total_growth"`
	SuccessfulChecks int `json:"successful_checks"`
}

// Summary aggregates every growth record of one sheet.
type Summary struct {
	Sessions        int                    `json:"sessions"`
	SanityGained    int                    `json:"sanity_gained"`
	SanityLost      int                    `json:"sanity_lost"`
	NetSanity       int                    `json:"net_sanity"`
	ExperienceTotal int                    `json:"experience_total"`
	Skills          map[string]SkillTotals `json:"skills"`
}

// Summarize folds records into totals.
func Summarize(records []Record) Summary {
	s := Summary{Skills: map[string]SkillTotals{}}
	for _, r := range records {
		s.Sessions++
		s.SanityGained += r.SanityGained
		s.SanityLost += r.SanityLost
		s.ExperienceTotal += r.ExperienceGained
		for _, g := range r.Skills {
			t := s.Skills[g.SkillName]
			t.TotalGrowth += g.GrowthAmount
			if g.Succeeded() {
				t.SuccessfulChecks++
			}
			s.Skills[g.SkillName] = t
		}
	}
	s.NetSanity = s.SanityGained - s.SanityLost
	return s
}
