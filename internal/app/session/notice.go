package session

// NoticeCode identifies a transient user-visible signal.
type NoticeCode int

const (
	NoticeNoAudioFiles NoticeCode = iota // A play-folder request found no audio
	NoticeFolderUnreadable               // A folder could not be listed
	NoticeBookmarkUnreadable             // A bookmark candidate cannot be enumerated
)

// String returns the string representation of the code.
func (n NoticeCode) String() string {
	switch n {
	case NoticeNoAudioFiles:
		return "no_audio_files"
	case NoticeFolderUnreadable:
		return "folder_unreadable"
	case NoticeBookmarkUnreadable:
		return "bookmark_unreadable"
	default:
		return "unknown"
	}
}

// Notice is a soft, non-blocking signal for the UI.
type Notice struct {
	Code    NoticeCode
	Message string
}
