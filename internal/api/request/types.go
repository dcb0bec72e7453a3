package request

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Name string `json:"name"`
}
