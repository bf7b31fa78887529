package main

import (
	"context"
	"ebm/src/config"
	"ebm/src/lib"
	"ebm/src/models"
	"ebm/src/payments"
	"ebm/src/types"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func bookingHandlers(g *gin.RouterGroup, orc *payments.Orchestrator) *gin.RouterGroup {
	g.
		POST("/bookings/charge", func(ctx *gin.Context) {
			var body types.ChargeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			eventDate, err := time.Parse(config.TIME_PARSE_FORMAT, body.EventDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			returnUrl := fmt.Sprintf("%s/checkout/callback/success", os.Getenv("APP_HOST"))
			result, err := orc.ChargeAndBook(ctx.Request.Context(), payments.ChargeParams{
				PaymentMethod: body.PaymentMethodID,
				Amount:        body.Amount,
				Currency:      body.Currency,
				Package:       body.Package,
				EventDate:     eventDate,
				UserID:        userId,
				ReturnURL:     returnUrl,
			})
			if err != nil {
				var verr *payments.ValidationError
				if errors.As(err, &verr) {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Error()})
					return
				}
				var gerr *payments.GatewayError
				if errors.As(err, &gerr) {
					log.Printf("Error on charge for user [%d]: %s\n", userId, gerr.Error())
					ctx.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "payment gateway unavailable"})
					return
				}
				log.Printf("Error on charge for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Error while processing request"})
				return
			}
			if result.Booking == nil {
				// Not an error: the intent needs a follow-up step. The caller
				// polls or retries with the client secret.
				ctx.JSON(http.StatusOK, gin.H{
					"success":       false,
					"status":        result.IntentStatus,
					"client_secret": result.ClientSecret,
				})
				return
			}
			booking := result.Booking
			go cacheBookingRef(booking.PaymentIntentId, booking.ID)
			go publishBookingConfirmed(booking)
			ctx.JSON(http.StatusOK, gin.H{
				"success":       true,
				"client_secret": result.ClientSecret,
				"booking_id":    booking.ID,
				"data":          booking,
			})
		}).
		GET("/bookings/finalize", func(ctx *gin.Context) {
			var query types.FinalizeQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Fast path: a previous finalize of this intent cached the
			// booking reference, skip the gateway roundtrip.
			if rd := lib.GetRedisClient(); rd != nil {
				if val := rd.Get(context.Background(), bookingCacheKey(query.PaymentIntentID)).Val(); val != "" {
					if atoi, err := strconv.Atoi(val); err == nil {
						if booking, err := orc.Booking(ctx.Request.Context(), uint(atoi)); err == nil {
							ctx.JSON(http.StatusOK, gin.H{"data": booking})
							return
						}
					}
				}
			}
			booking, err := orc.Finalize(ctx.Request.Context(), query.PaymentIntentID)
			if err != nil {
				var nce *payments.NotCompletedError
				if errors.As(err, &nce) {
					ctx.JSON(http.StatusPaymentRequired, gin.H{"error": "payment not completed", "status": nce.Status})
					return
				}
				if errors.Is(err, payments.ErrNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				var gerr *payments.GatewayError
				if errors.As(err, &gerr) {
					log.Printf("Error finalizing intent [%s]: %s\n", query.PaymentIntentID, gerr.Error())
					ctx.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
					return
				}
				log.Printf("Error finalizing intent [%s]: %s\n", query.PaymentIntentID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Error while processing request"})
				return
			}
			go cacheBookingRef(booking.PaymentIntentId, booking.ID)
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			bookings, err := orc.Bookings(ctx.Request.Context(), userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			booking, err := orc.Booking(ctx.Request.Context(), params.ID)
			if err != nil || booking.UserID != userId {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}

func bookingCacheKey(intentId string) string {
	return fmt.Sprintf("intent:%s:booking", intentId)
}

func cacheBookingRef(intentId string, bookingId uint) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if _, err := rd.SetEx(context.Background(), bookingCacheKey(intentId), fmt.Sprint(bookingId), 10*time.Minute).Result(); err != nil {
		log.Printf("Error caching booking ref [%s]: %s\n", intentId, err.Error())
	}
}

func publishBookingConfirmed(booking *models.Booking) {
	if !lib.KafkaEnabled() {
		return
	}
	if err := lib.KafkaProduceMessage("BookingEventsProducer", "BookingConfirmed", map[string]any{
		"eventId":        uuid.NewString(),
		"booking_id":     booking.ID,
		"user_id":        booking.UserID,
		"payment_intent": booking.PaymentIntentId,
		"package":        booking.Package,
		"amount":         booking.Amount,
		"currency":       booking.Currency,
	}); err != nil {
		log.Printf("Error sending message to queue: %s\n", err.Error())
	}
}
