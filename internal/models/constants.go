package models

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)

// Default naming limits for party display names.
const (
	DefaultMaxNameLength    = 140
	DefaultReferenceReserve = 15
	DefaultReferencePrefix  = "EBH"
)
