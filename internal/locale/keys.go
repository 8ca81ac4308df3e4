package locale

// Message key constants for localization.
// All user-facing messages go through these constants.

const (
	// Gates and generic replies
	NotEventAdmin   = "NotEventAdmin"
	PrivateChatOnly = "PrivateChatOnly"
	UnknownAction   = "UnknownAction"
	ActionFailed    = "ActionFailed"
	Goodbye         = "Goodbye"
	SessionConflict = "SessionConflict"
	SessionExpired  = "SessionExpired"
	EventNotFound   = "EventNotFound"
	Yes             = "Yes"
	No              = "No"
	Cancel          = "Cancel"
	NoneValue       = "NoneValue"

	// /start and /help
	StartGreeting = "StartGreeting"
	HelpText      = "HelpText"

	// Main menu and navigation
	MainMenuPrompt   = "MainMenuPrompt"
	MainMenuNewEvent = "MainMenuNewEvent"
	MainMenuMyEvents = "MainMenuMyEvents"
	MainMenuClose    = "MainMenuClose"
	MyEventsTitle    = "MyEventsTitle"
	MyEventsEmpty    = "MyEventsEmpty"
	BackToMainMenu   = "BackToMainMenu"
	BackToMyEvents   = "BackToMyEvents"

	// Event menu
	EventMenuSummary          = "EventMenuSummary"
	EventMenuAddAnnouncement  = "EventMenuAddAnnouncement"
	EventMenuPreview          = "EventMenuPreview"
	EventMenuPost             = "EventMenuPost"
	EventMenuViewAttendees    = "EventMenuViewAttendees"
	EventMenuMessageAttendees = "EventMenuMessageAttendees"
	EventMenuEditAnnouncement = "EventMenuEditAnnouncement"
	EventMenuEditEvent        = "EventMenuEditEvent"
	EventMenuDiscardEvent     = "EventMenuDiscardEvent"
	DiscardEventConfirm       = "DiscardEventConfirm"
	EventDiscarded            = "EventDiscarded"

	// Attendee views
	AttendeesTitle   = "AttendeesTitle"
	AttendeesSection = "AttendeesSection"
	AttendeesNone    = "AttendeesNone"
	WaitlistNote     = "WaitlistNote"

	// Event creation dialog
	AskEventName          = "AskEventName"
	CancelNewEvent        = "CancelNewEvent"
	DuplicateEventName    = "DuplicateEventName"
	EmptyEventName        = "EmptyEventName"
	AskHasStart           = "AskHasStart"
	AskStartDate          = "AskStartDate"
	AskHasEnd             = "AskHasEnd"
	AskEndDate            = "AskEndDate"
	InvalidDateFormat     = "InvalidDateFormat"
	AskHasCapacity        = "AskHasCapacity"
	AskCapacity           = "AskCapacity"
	InvalidCapacity       = "InvalidCapacity"
	EventSummary          = "EventSummary"
	SummarySave           = "SummarySave"
	SummaryEdit           = "SummaryEdit"
	SummaryDiscard        = "SummaryDiscard"
	EditMenuPrompt        = "EditMenuPrompt"
	EditName              = "EditName"
	EditStart             = "EditStart"
	EditEnd               = "EditEnd"
	EditCapacity          = "EditCapacity"
	EditBack              = "EditBack"
	DiscardDraftConfirm   = "DiscardDraftConfirm"
	EventSaved            = "EventSaved"
	EventCreationCanceled = "EventCreationCanceled"

	// Announcement composer
	AskAnnouncementText   = "AskAnnouncementText"
	AskShowSpots          = "AskShowSpots"
	AskShowAttending      = "AskShowAttending"
	SpotsRemainingLine    = "SpotsRemainingLine"
	NumberAttendingLine   = "NumberAttendingLine"
	RSVPCallToAction      = "RSVPCallToAction"
	PreviewButtonNote     = "PreviewButtonNote"
	PostAnnouncement      = "PostAnnouncement"
	SaveAnnouncement      = "SaveAnnouncement"
	EditAnnouncement      = "EditAnnouncement"
	DiscardAnnouncement   = "DiscardAnnouncement"
	PostConfirmPrompt     = "PostConfirmPrompt"
	AnnouncementPosted    = "AnnouncementPosted"
	AnnouncementSaved     = "AnnouncementSaved"
	AnnouncementDiscarded = "AnnouncementDiscarded"

	// RSVP buttons and acknowledgments
	RSVPButtonAttending  = "RSVPButtonAttending"
	RSVPButtonMaybe      = "RSVPButtonMaybe"
	RSVPButtonDeclined   = "RSVPButtonDeclined"
	RSVPPrompt           = "RSVPPrompt"
	RSVPRecorded         = "RSVPRecorded"
	RSVPWaitlisted       = "RSVPWaitlisted"
	RSVPMustMessageFirst = "RSVPMustMessageFirst"
	RSVPEventGone        = "RSVPEventGone"

	// Category labels
	CategoryLabelAttending = "CategoryLabelAttending"
	CategoryLabelMaybe     = "CategoryLabelMaybe"
	CategoryLabelDeclined  = "CategoryLabelDeclined"

	// Attendee broadcast
	ChooseRecipientsPrompt = "ChooseRecipientsPrompt"
	ConfirmRecipients      = "ConfirmRecipients"
	BroadcastNeedCategory  = "BroadcastNeedCategory"
	BroadcastNoRecipients  = "BroadcastNoRecipients"
	AskBroadcastMessage    = "AskBroadcastMessage"
	BroadcastSummary       = "BroadcastSummary"
	BroadcastCanceled      = "BroadcastCanceled"
)
