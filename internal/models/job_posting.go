package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Experience levels accepted on a job posting.
const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
)

// Candidate statuses.
const (
	CandidateStatusPending = "pending"
)

// PostingStatusActive is the initial (and only) posting status.
const PostingStatusActive = "active"

// Candidate is an invited applicant embedded in a posting's candidate list.
type Candidate struct {
	Email   string    `json:"email"`
	Status  string    `json:"status"`
	AddedAt time.Time `json:"added_at"`
}

// JobPosting is a job advertisement owned by a client. Postings are created
// once and listed; no update or delete operation exists.
type JobPosting struct {
	BaseModel

	ClientID        string         `gorm:"type:uuid;not null;index" json:"client_id"`
	JobTitle        string         `gorm:"not null" json:"job_title"`
	JobDescription  string         `json:"job_description"`
	ExperienceLevel string         `gorm:"not null" json:"experience_level"`
	Candidates      datatypes.JSON `json:"candidates"`
	EndDate         time.Time      `gorm:"not null" json:"end_date"`
	Status          string         `gorm:"not null;default:active" json:"status"`
}

// SetCandidates encodes the candidate list into the JSON column.
func (p *JobPosting) SetCandidates(candidates []Candidate) error {
	payload, err := json.Marshal(candidates)
	if err != nil {
		return err
	}
	p.Candidates = datatypes.JSON(payload)
	return nil
}

// CandidateList decodes the JSON column back into candidate values.
func (p *JobPosting) CandidateList() ([]Candidate, error) {
	if len(p.Candidates) == 0 {
		return nil, nil
	}
	var candidates []Candidate
	if err := json.Unmarshal(p.Candidates, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}
