package hub

// Inbound event names.
const (
	EventJoinRoom        = "join_room"
	EventLeaveRoom       = "leave_room"
	EventDraw            = "draw"
	EventErase           = "erase"
	EventClearBoard      = "clear_board"
	EventUndo            = "undo"
	EventRedo            = "redo"
	EventSendMessage     = "send_message"
	EventCursorMove      = "cursor_move"
	EventFileShare       = "file_share"
	EventFileListRequest = "file_list_request"
	EventScreenStart     = "screen_start"
	EventScreenStop      = "screen_stop"
	EventScreenRequest   = "screen_request"
	EventScreenOffer     = "screen_offer"
	EventScreenAnswer    = "screen_answer"
	EventScreenIce       = "screen_ice"
)

// Outbound event names. draw, erase, clear_board, undo, redo and the
// screen_* negotiation events reuse their inbound names.
const (
	EventRoomJoined       = "room_joined"
	EventChatHistory      = "chat_history"
	EventPresenceSnapshot = "presence_snapshot"
	EventUserJoined       = "user_joined"
	EventUserLeft         = "user_left"
	EventCanvasRestore    = "canvas_restore"
	EventChatMessage      = "chat_message"
	EventBoardError       = "board_error"
	EventRoomError        = "room_error"
	EventFileShared       = "file_shared"
	EventFileList         = "file_list"
	EventScreenAvailable  = "screen_available"
	EventScreenStopped    = "screen_stopped"
)
