package vtparse

import "image/color"

// Handler receives semantic callbacks from Parser as it interprets a byte
// stream. Each method corresponds to one control function, CSI/ESC/OSC/DCS
// sequence, or character class rather than to a raw escape-sequence shape —
// the parser does the interpreting, Handler just acts on the result.
type Handler interface {
	// Input writes one printable rune as decoded from the byte stream; the
	// Parser applies no charset translation, that is left to the Handler.
	Input(r rune)

	Bell()
	Backspace()
	CarriageReturn()
	LineFeed()
	Tab(n int)
	HorizontalTabSet()
	MoveForwardTabs(n int)
	MoveBackwardTabs(n int)

	Goto(row, col int)
	GotoLine(row int)
	GotoCol(col int)
	MoveUp(n int)
	MoveDown(n int)
	MoveForward(n int)
	MoveBackward(n int)
	MoveUpCr(n int)
	MoveDownCr(n int)

	ClearLine(mode LineClearMode)
	ClearScreen(mode ClearMode)
	ClearTabs(mode TabulationClearMode)
	Decaln()

	InsertBlank(n int)
	InsertBlankLines(n int)
	DeleteChars(n int)
	DeleteLines(n int)
	EraseChars(n int)
	ScrollUp(n int)
	ScrollDown(n int)
	SetScrollingRegion(top, bottom int)

	SetMode(mode DECMode)
	UnsetMode(mode DECMode)
	SetKeypadApplicationMode()
	UnsetKeypadApplicationMode()

	SetTerminalCharAttribute(attr CharAttribute)
	SetColor(index int, c color.Color)
	ResetColor(i int)
	SetDynamicColor(prefix string, index int, terminator string)

	SetTitle(title string)
	PushTitle()
	PopTitle()

	SetCursorStyle(style CursorStyle)
	SaveCursorPosition()
	RestoreCursorPosition()
	ReverseIndex()
	ResetState()
	Substitute()

	DeviceStatus(n int)
	IdentifyTerminal(b byte)

	ConfigureCharset(index CharsetIndex, charset Charset)
	SetActiveCharset(n int)
	SingleShift(index CharsetIndex)

	SetHyperlink(hyperlink *Hyperlink)

	SetKeyboardMode(mode KeyboardMode, behavior KeyboardModeBehavior)
	PushKeyboardMode(mode KeyboardMode)
	PopKeyboardMode(n int)
	ReportKeyboardMode()
	SetModifyOtherKeys(modify ModifyOtherKeys)
	ReportModifyOtherKeys()

	ApplicationCommandReceived(data []byte)
	PrivacyMessageReceived(data []byte)
	StartOfStringReceived(data []byte)

	ShellIntegrationMark(mark ShellIntegrationMark, exitCode int)
	SetWorkingDirectory(uri string)

	ClipboardLoad(clipboard byte, terminator string)
	ClipboardStore(clipboard byte, data []byte)

	TextAreaSizeChars()
	TextAreaSizePixels()
	CellSizePixels()

	SixelReceived(params [][]uint16, data []byte)

	DesktopNotification(payload *NotificationPayload)
	SetUserVar(name, value string)
}

// NotificationPayload carries the parsed body of an OSC 9 / OSC 99 desktop
// notification request. OSC 9 (iTerm2-style) only ever populates Data;
// OSC 99 (kitty-style) populates the rest from its key=value prefix.
type NotificationPayload struct {
	ID          string
	Done        bool
	PayloadType string // "title", "body", or "?" for a capability query
	Encoding    string
	Actions     []string
	TrackClose  bool
	Timeout     int
	AppName     string
	Type        string
	IconName    string
	IconCacheID string
	Sound       string
	Urgency     int
	Occasion    string
	Data        []byte
}
