package constants

// Session
const (
	SessionCookieName = "workunit_session"
	ContextKeyUserID  = "user_id"
)

// Authentication
const (
	MinPasswordLength = 6
)

// Delegation ranks are tokens of the form X<digit>; a missing or malformed
// token parses to UnknownRank, the lowest possible authority.
const (
	DefaultDelegateLevel = "X3"
	UnknownRank          = 99
)

// AdminNotesMarker is the legacy sentinel in the notes column of the staff
// roster spreadsheet that designates the super-admin account.
const AdminNotesMarker = "AD"

// UnitLeadTitle is the legacy unit-head token matched (case-insensitively)
// against the free-text position column during import.
const UnitLeadTitle = "trưởng phòng"

// Reporting
const (
	PerformanceTopN = 8
	TimeLayout      = "15:04 02/01/2006"
)

// MaxAttachments caps the number of files attached to a single task.
const MaxAttachments = 5
