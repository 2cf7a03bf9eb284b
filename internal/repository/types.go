package repository

import "time"

// MemberListFilter filters member listings.
type MemberListFilter struct {
	Page           int
	PageSize       int
	CampaignID     uint
	Keyword        string // matches name, phone or instagram
	Status         string
	RankingStatus  string
	Referrer       string
	OnlyTop        bool
	IncludeDeleted bool
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// FriendListFilter filters friend listings.
type FriendListFilter struct {
	Page           int
	PageSize       int
	CampaignID     uint
	MemberID       uint
	Keyword        string
	Status         string
	IncludeDeleted bool
	OnlyUnverified bool
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// CampaignListFilter filters campaign listings.
type CampaignListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}
