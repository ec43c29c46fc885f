package prepcache

import (
	"fmt"
	"time"
)

// Category identifies one of the eight independent enrichment slots of
// a prep. Categories complete in no particular order.
type Category int

const (
	CategoryReadinessScore Category = iota
	CategoryValuesAlignment
	CategoryCompanyResearch
	CategoryStrategicNews
	CategoryCompetitiveIntel
	CategoryInterviewStrategy
	CategoryExecutiveInsights
	CategoryCertifications

	numCategories
)

// Categories returns all enrichment categories in declaration order.
func Categories() []Category {
	cats := make([]Category, numCategories)
	for i := range cats {
		cats[i] = Category(i)
	}
	return cats
}

func (c Category) String() string {
	switch c {
	case CategoryReadinessScore:
		return "readiness_score"
	case CategoryValuesAlignment:
		return "values_alignment"
	case CategoryCompanyResearch:
		return "company_research"
	case CategoryStrategicNews:
		return "strategic_news"
	case CategoryCompetitiveIntel:
		return "competitive_intel"
	case CategoryInterviewStrategy:
		return "interview_strategy"
	case CategoryExecutiveInsights:
		return "executive_insights"
	case CategoryCertifications:
		return "certifications"
	default:
		return "unknown"
	}
}

// endpointPath returns the enrichment endpoint for this category, keyed
// by the prep's externally-visible id.
func (c Category) endpointPath(prepID int) string {
	var suffix string
	switch c {
	case CategoryReadinessScore:
		suffix = "readiness-score"
	case CategoryValuesAlignment:
		suffix = "values-alignment"
	case CategoryCompanyResearch:
		suffix = "company-research"
	case CategoryStrategicNews:
		suffix = "strategic-news"
	case CategoryCompetitiveIntel:
		suffix = "competitive-intel"
	case CategoryInterviewStrategy:
		suffix = "interview-strategy"
	case CategoryExecutiveInsights:
		suffix = "executive-insights"
	case CategoryCertifications:
		suffix = "certifications"
	}
	return fmt.Sprintf("/interview-preps/%d/%s", prepID, suffix)
}

// Prep is one cached composite resource: the primary overview document
// plus up to eight independently-fetched enrichment documents. A Prep
// is visible to readers the moment its overview is fetched; slots fill
// in afterwards and are never reset except by deleting the whole entry.
//
// A Prep returned by the store is a snapshot: treat it as read-only and
// re-read through Get to observe newly merged slots.
type Prep struct {
	// PrepID is the externally-visible id of the prep. Immutable.
	PrepID int `json:"prepId"`

	// ResumeID is the tailored-resume id the prep was generated for,
	// and the key the entry is cached under. Immutable.
	ResumeID int `json:"resumeId"`

	// Overview is the primary payload, set once at creation.
	Overview map[string]any `json:"overview"`

	// Enrichment slots. nil means not yet loaded or failed.
	ReadinessScore    map[string]any `json:"readinessScore,omitempty"`
	ValuesAlignment   map[string]any `json:"valuesAlignment,omitempty"`
	CompanyResearch   map[string]any `json:"companyResearch,omitempty"`
	StrategicNews     map[string]any `json:"strategicNews,omitempty"`
	CompetitiveIntel  map[string]any `json:"competitiveIntel,omitempty"`
	InterviewStrategy map[string]any `json:"interviewStrategy,omitempty"`
	ExecutiveInsights map[string]any `json:"executiveInsights,omitempty"`
	Certifications    map[string]any `json:"certifications,omitempty"`

	// CachedAt is set at creation and never touched by enrichment:
	// merges update content, not the freshness marker.
	CachedAt time.Time `json:"cachedAt"`
}

// Slot returns the document for one enrichment category, or nil if the
// slot has not been populated.
func (p *Prep) Slot(c Category) map[string]any {
	switch c {
	case CategoryReadinessScore:
		return p.ReadinessScore
	case CategoryValuesAlignment:
		return p.ValuesAlignment
	case CategoryCompanyResearch:
		return p.CompanyResearch
	case CategoryStrategicNews:
		return p.StrategicNews
	case CategoryCompetitiveIntel:
		return p.CompetitiveIntel
	case CategoryInterviewStrategy:
		return p.InterviewStrategy
	case CategoryExecutiveInsights:
		return p.ExecutiveInsights
	case CategoryCertifications:
		return p.Certifications
	default:
		return nil
	}
}

// setSlot writes one enrichment slot. Only the reducer calls this, on a
// fresh clone.
func (p *Prep) setSlot(c Category, doc map[string]any) {
	switch c {
	case CategoryReadinessScore:
		p.ReadinessScore = doc
	case CategoryValuesAlignment:
		p.ValuesAlignment = doc
	case CategoryCompanyResearch:
		p.CompanyResearch = doc
	case CategoryStrategicNews:
		p.StrategicNews = doc
	case CategoryCompetitiveIntel:
		p.CompetitiveIntel = doc
	case CategoryInterviewStrategy:
		p.InterviewStrategy = doc
	case CategoryExecutiveInsights:
		p.ExecutiveInsights = doc
	case CategoryCertifications:
		p.Certifications = doc
	}
}

// Complete reports whether all eight slots are populated.
func (p *Prep) Complete() bool {
	for _, c := range Categories() {
		if p.Slot(c) == nil {
			return false
		}
	}
	return true
}

// clone returns a shallow copy. Slot documents are shared; each slot has
// exactly one writer and is written before the clone becomes visible.
func (p *Prep) clone() *Prep {
	next := *p
	return &next
}
