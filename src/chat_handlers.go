package main

import (
	"ebm/src/chat"
	"ebm/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func chatHandlers(g *gin.RouterGroup, hub *chat.Hub, store *chat.Store) *gin.RouterGroup {
	g.
		GET("/chat/messages", func(ctx *gin.Context) {
			var query types.ChatHistoryQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			uid := ctx.GetString("uid")
			roomId := chat.RoomIDFor(uid, query.Peer)
			messages, err := store.ListByRoom(ctx.Request.Context(), roomId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": messages, "count": len(messages), "room_id": roomId})
		}).
		GET("/chat/ws", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			role := types.PartyRole(ctx.GetString("role"))
			if err := chat.ServeWS(hub, ctx.Writer, ctx.Request, uid, role); err != nil {
				log.Printf("Error upgrading connection for [%s]: %s\n", uid, err.Error())
			}
		})
	return g
}
