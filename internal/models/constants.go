package models

// Category sentinels assigned before classification runs. Tabular and OFX
// ingestion historically use different spellings; both are kept.
const (
	CategoryUncategorizedCSV = "Não categorizada"
	CategoryUncategorizedOFX = "Não categorizado"
)

// Placeholders for transactions whose source carries no description.
const (
	NamePlaceholderFormat = "Transação %d"
	NameNoDescription     = "Transação sem descrição"
)

// Rationales written by the reconciler when the model gives nothing usable.
const (
	ReasoningNotFound      = "Não foi possível categorizar"
	ReasoningGlobalFailure = "Categorização automática falhou"
)

// DefaultConfidence applies when the model returns an item without a
// confidence score.
const DefaultConfidence = 0.5

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
