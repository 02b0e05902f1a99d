package types

// room (see RoomView):
//   id: string
//   name: string
//   players: { id, name, score, isJudge, hand: Card[] }[]
//   currentJudgeIndex: number
//   currentPromptCard: Card | null
//   playedCards: { card: Card, playerId, playerName }[]  // shuffled when judging starts
//   round: number
//   targetScore: number
//   status: "waiting" | "playing" | "judging" | "finished"
//   createdAt: string (RFC 3339)
//   winner: Player | null
//   hasPassword: boolean
//   maxPlayers: number
//   roundDurationSeconds: number
//   deckIds: string[]
//   promptsLeft: number
//   responsesLeft: number
//
// Card:
//   id: string
//   text: string
//   deckId: string
//   kind: "prompt" | "response"
//
// REST mirrors the websocket commands:
//   GET  /rooms                      -> RoomSummary[]
//   POST /rooms                      -> { playerId, version, room }
//   GET  /rooms/{id}                 -> { version, room }
//   POST /rooms/{id}/join            -> { playerId, version, room }
//   POST /rooms/{id}/leave|start|play|judge -> { version, room }
//   GET  /rooms/{id}/invite.png      -> QR code of <public-url>/join/{id}
//   GET  /decks                      -> Deck[]
// Admin (header X-Admin-Password):
//   POST   /admin/decks, DELETE /admin/decks/{deckId}
//   POST   /admin/decks/{deckId}/cards, DELETE /admin/decks/{deckId}/cards/{cardId}
//   DELETE /admin/rooms
