package vtparse

// LineClearMode selects which part of the current line EL (CSI K) erases.
type LineClearMode int

const (
	LineClearModeRight LineClearMode = iota
	LineClearModeLeft
	LineClearModeAll
)

// ClearMode selects which part of the screen ED (CSI J) erases.
type ClearMode int

const (
	ClearModeBelow ClearMode = iota
	ClearModeAbove
	ClearModeAll
	ClearModeSaved
)

// TabulationClearMode selects which tab stops TBC (CSI g) clears.
type TabulationClearMode int

const (
	TabulationClearModeCurrent TabulationClearMode = iota
	TabulationClearModeAll
)

// CharsetIndex selects one of the four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// Charset identifies a designated character set, as named by an ESC ( / ) / * / + sequence.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetUK
	CharsetLineDrawing
	CharsetDECTechnical
	CharsetUnknown
)

// CursorStyle selects how the text cursor is rendered (DECSCUSR, CSI q).
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Hyperlink carries the payload of an OSC 8 hyperlink sequence.
type Hyperlink struct {
	ID  string
	URI string
}

// KeyboardMode is a bitmask of Kitty keyboard protocol flags (CSI > u / CSI = u / CSI ? u).
type KeyboardMode uint32

const KeyboardModeNoMode KeyboardMode = 0

const (
	KeyboardModeDisambiguateEscapeCodes KeyboardMode = 1 << iota
	KeyboardModeReportEventTypes
	KeyboardModeReportAlternateKeys
	KeyboardModeReportAllKeysAsEscapeCodes
	KeyboardModeReportAssociatedText
)

// KeyboardModeBehavior selects how a new keyboard mode combines with the mode stack's top entry.
type KeyboardModeBehavior int

const (
	KeyboardModeBehaviorReplace KeyboardModeBehavior = iota
	KeyboardModeBehaviorUnion
	KeyboardModeBehaviorDifference
)

// ModifyOtherKeys is xterm's modifyOtherKeys setting (CSI > 4 ; n m).
type ModifyOtherKeys int

const (
	ModifyOtherKeysOff ModifyOtherKeys = iota
	ModifyOtherKeysExceptWellDefined
	ModifyOtherKeysAll
)

// DECMode is a private/ANSI mode toggled by DECSET/DECRST (CSI ? Pm h / l) or SM/RM (CSI Pm h / l).
type DECMode int

const (
	DECModeCursorKeys DECMode = iota
	DECModeColumnMode
	DECModeInsert
	DECModeOrigin
	DECModeLineWrap
	DECModeBlinkingCursor
	DECModeLineFeedNewLine
	DECModeShowCursor
	DECModeReportMouseClicks
	DECModeReportCellMouseMotion
	DECModeReportAllMouseMotion
	DECModeReportFocusInOut
	DECModeUTF8Mouse
	DECModeSGRMouse
	DECModeAlternateScroll
	DECModeUrgencyHints
	DECModeSwapScreenAndSetRestoreCursor
	DECModeBracketedPaste
)

// CharAttributeKind names one SGR (CSI Pm m) attribute.
type CharAttributeKind int

const (
	CharAttributeReset CharAttributeKind = iota
	CharAttributeBold
	CharAttributeDim
	CharAttributeItalic
	CharAttributeUnderline
	CharAttributeDoubleUnderline
	CharAttributeCurlyUnderline
	CharAttributeDottedUnderline
	CharAttributeDashedUnderline
	CharAttributeBlinkSlow
	CharAttributeBlinkFast
	CharAttributeReverse
	CharAttributeHidden
	CharAttributeStrike
	CharAttributeCancelBold
	CharAttributeCancelBoldDim
	CharAttributeCancelItalic
	CharAttributeCancelUnderline
	CharAttributeCancelBlink
	CharAttributeCancelReverse
	CharAttributeCancelHidden
	CharAttributeCancelStrike
	CharAttributeForeground
	CharAttributeBackground
	CharAttributeUnderlineColor
)

// RGBColor is a 24-bit truecolor SGR value (38/48/58;2;r;g;b).
type RGBColor struct {
	R, G, B byte
}

// IndexedColorRef is a 256-color palette SGR value (38/48/58;5;n).
type IndexedColorRef struct {
	Index uint8
}

// CharAttribute is one parsed SGR attribute, with an optional color payload.
type CharAttribute struct {
	Attr         CharAttributeKind
	RGBColor     *RGBColor
	IndexedColor *IndexedColorRef
	NamedColor   *int
}

// ShellIntegrationMark names one OSC 133 shell-integration mark.
type ShellIntegrationMark int

const (
	PromptStart ShellIntegrationMark = iota
	CommandStart
	CommandExecuted
	CommandFinished
)
