package constants

// Member / friend record status.
const (
	RecordStatusActive   = "Ativo"
	RecordStatusInactive = "Inativo"
)

// Ranking status tiers, derived from contracts_completed.
const (
	RankingStatusGreen  = "Verde"
	RankingStatusYellow = "Amarelo"
	RankingStatusRed    = "Vermelho"
)

// Ranking tier thresholds.
const (
	RankingGreenThreshold  = 15
	RankingYellowThreshold = 1
)

// DefaultRankingCutoff is the top-N flag cutoff when neither the campaign nor
// the config override it.
const DefaultRankingCutoff = 1500

// Registration roles.
const (
	RoleMember = "Membro"
	RoleFriend = "Amigo"
	RoleAdmin  = "Administrador"
)

// Campaign status.
const (
	CampaignStatusActive   = "active"
	CampaignStatusInactive = "inactive"
)

// Async task names.
const (
	TaskCampaignRankingRecompute = "ranking:campaign_recompute"
	TaskMemberCountersRecompute  = "ranking:member_recompute"
)

// Queue names.
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)
