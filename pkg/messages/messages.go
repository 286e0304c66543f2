package messages

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 1024
)

// Message types
const (
	MessageTypeCreateGameRequest  = "CreateGameRequest"
	MessageTypeCreateGameResponse = "CreateGameResponse"
	MessageTypeJoinGameRequest    = "JoinGameRequest"
	MessageTypeWaitingForPlayer   = "WaitingForPlayer"
	MessageTypeListGamesRequest   = "ListGamesRequest"
	MessageTypeListGamesResponse  = "ListGamesResponse"
	MessageTypeGameStart          = "GameStart"
	MessageTypeMoveRequest        = "MoveRequest"
	MessageTypeMoveResult         = "MoveResult"
	MessageTypeExitGameRequest    = "ExitGameRequest"
	MessageTypeGameEnd            = "GameEnd"
	MessageTypePlayerDisconnect   = "PlayerDisconnect"
	MessageTypeErrorMessage       = "ErrorMessage"
	MessageTypePing               = "Ping"
	MessageTypePong               = "Pong"
)

// Difficulty levels accepted in CreateGameRequest.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// Message is implemented by every message in the wire catalog. The wire
// encoding is a flat JSON object with a "type" discriminant field.
type Message interface {
	MessageType() string
}

// CreateGameRequest asks the server to create a new game.
type CreateGameRequest struct {
	PlayerName string `json:"playerName"`
	Difficulty string `json:"difficulty"`
}

func (m *CreateGameRequest) MessageType() string { return MessageTypeCreateGameRequest }

// CreateGameResponse carries the freshly allocated game code back to the creator.
type CreateGameResponse struct {
	GameCode string `json:"gameCode"`
	PlayerID int    `json:"playerId"`
}

func (m *CreateGameResponse) MessageType() string { return MessageTypeCreateGameResponse }

// JoinGameRequest asks to join an existing game by code.
type JoinGameRequest struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
}

func (m *JoinGameRequest) MessageType() string { return MessageTypeJoinGameRequest }

// WaitingForPlayer tells the creator their game is waiting for an opponent.
type WaitingForPlayer struct {
	GameCode string `json:"gameCode"`
}

func (m *WaitingForPlayer) MessageType() string { return MessageTypeWaitingForPlayer }

// ListGamesRequest asks for the list of joinable games.
type ListGamesRequest struct{}

func (m *ListGamesRequest) MessageType() string { return MessageTypeListGamesRequest }

// GameInfo describes one joinable game in a ListGamesResponse.
type GameInfo struct {
	GameCode    string `json:"gameCode"`
	CreatorName string `json:"creatorName"`
}

// ListGamesResponse lists games waiting for a second player.
type ListGamesResponse struct {
	Games []GameInfo `json:"games"`
}

func (m *ListGamesResponse) MessageType() string { return MessageTypeListGamesResponse }

// GameStart is sent to both players when the second player joins.
// Puzzle is a flat 81-element row-major array, 0 = blank.
type GameStart struct {
	Puzzle       []int  `json:"puzzle"`
	Player1Name  string `json:"player1Name"`
	Player2Name  string `json:"player2Name"`
	YourPlayerID int    `json:"yourPlayerId"`
}

func (m *GameStart) MessageType() string { return MessageTypeGameStart }

// MoveRequest submits a cell fill.
type MoveRequest struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

func (m *MoveRequest) MessageType() string { return MessageTypeMoveRequest }

// MoveResult reports the outcome of a move along with both scores.
type MoveResult struct {
	PlayerID int    `json:"playerId"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Value    int    `json:"value"`
	Success  bool   `json:"success"`
	Correct  bool   `json:"correct"`
	Reason   string `json:"reason,omitempty"`
	Score1   int    `json:"score1"`
	Score2   int    `json:"score2"`
}

func (m *MoveResult) MessageType() string { return MessageTypeMoveResult }

// ExitGameRequest is sent when a player voluntarily leaves their game.
type ExitGameRequest struct{}

func (m *ExitGameRequest) MessageType() string { return MessageTypeExitGameRequest }

// GameEnd announces the winner and final scores.
type GameEnd struct {
	WinnerID   int    `json:"winnerId"`
	WinnerName string `json:"winnerName"`
	Score1     int    `json:"score1"`
	Score2     int    `json:"score2"`
	Reason     string `json:"reason"`
}

func (m *GameEnd) MessageType() string { return MessageTypeGameEnd }

// PlayerDisconnect notifies the remaining player that their opponent left.
type PlayerDisconnect struct {
	PlayerID   int    `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (m *PlayerDisconnect) MessageType() string { return MessageTypePlayerDisconnect }

// ErrorMessage reports a protocol-level error; the connection stays open.
type ErrorMessage struct {
	Text string `json:"text"`
}

func (m *ErrorMessage) MessageType() string { return MessageTypeErrorMessage }

// Ping is a client keepalive probe.
type Ping struct{}

func (m *Ping) MessageType() string { return MessageTypePing }

// Pong answers a Ping.
type Pong struct{}

func (m *Pong) MessageType() string { return MessageTypePong }
