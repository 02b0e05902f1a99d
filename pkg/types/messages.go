package types

// Websocket: GET /ws[?roomId=ABC123]
//
// Client -> Server (JSON text frames, field "type" selects the message)
// createRoom:
//   name: string                  // "" => "<playerName>'s room"
//   playerName: string
//   hasPassword: boolean
//   password: string
//   maxPlayers: number            // 0 => 8, allowed 2-20
//   targetScore: number           // 0 => 8
//   roundDurationSeconds: number  // 0 => no round timer
//   deckIds: string[]             // empty => default decks
//
// joinRoom:
//   roomId: string
//   playerName: string            // an existing name reconnects
//   password: string
//
// leaveRoom | startGame:
//   roomId: string                // optional once the connection follows a room
//   playerId: string
//
// playCard:
//   roomId: string
//   playerId: string
//   cardId: string
//
// judgeCard:
//   roomId: string
//   playerId: string              // must be the judge
//   index: number                 // into room.playedCards

// Server -> Client
// roomCreated:   { version, room, playerId }   // sent to the creator only
// roomJoined:    { version, room, playerId }   // sent to the joiner only
// roomUpdated:   { version, room }             // every accepted change, to every follower
// roomClosed:    { message }                   // room emptied, reaped, cleaned or server stopped
// error:         { message, kind }
//
// kind is one of: validation | not_found | auth | capacity | precondition |
// illegal_action | range | internal
