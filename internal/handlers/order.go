package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
	"storefront/internal/payments"
)

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderAddressRequest struct {
	Title  string `json:"title" binding:"required"`
	Detail string `json:"detail" binding:"required"`
	Note   string `json:"note"`
}

type createOrderRequest struct {
	Items   []createOrderItemRequest  `json:"items" binding:"required"`
	Address createOrderAddressRequest `json:"address" binding:"required"`
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

// CreateOrder builds an order from the cart payload. Prices come from the
// catalog, never from the client; item pricing and the stock decrement happen
// inside one transaction so a partial checkout cannot leak reserved stock.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		actor, ok := actorFromContext(c)
		if !ok || actor.ID.IsZero() {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		order, err := buildOrderFromRequest(req, actor.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var orderID primitive.ObjectID
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			pricedItems := make([]models.OrderItem, 0, len(order.Items))
			total := 0.0

			for _, item := range order.Items {
				var product models.Product
				err := db.Collection("products").FindOne(
					sessCtx,
					bson.M{
						"_id":       item.ProductID,
						"isDeleted": bson.M{"$ne": true},
					},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: item.ProductID}
				}
				if err != nil {
					return nil, err
				}

				if product.Stock < item.Quantity {
					return nil, outOfStockError{
						ProductID: item.ProductID,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}

				price := unitPrice(product)
				pricedItems = append(pricedItems, models.OrderItem{
					ProductID: item.ProductID,
					Name:      product.Name,
					Price:     price,
					Quantity:  item.Quantity,
				})
				total += price * float64(item.Quantity)

				filter := bson.M{
					"_id":       item.ProductID,
					"isDeleted": bson.M{"$ne": true},
					"stock":     bson.M{"$gte": item.Quantity},
				}
				update := bson.M{"$inc": bson.M{"stock": -item.Quantity}}

				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{
						ProductID: item.ProductID,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}
			}

			order.Items = pricedItems
			order.TotalAmount = total

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				orderID = id
			}
			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		order.ID = orderID
		log.Printf("[%s] order %s created for user %s", route, orderID.Hex(), actor.ID.Hex())

		c.JSON(http.StatusCreated, gin.H{
			"orderId":     orderID.Hex(),
			"totalAmount": order.TotalAmount,
			"message":     "order created",
		})
	}
}

func buildOrderFromRequest(req createOrderRequest, userID primitive.ObjectID) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errors.New("at least one item is required")
	}
	if strings.TrimSpace(req.Address.Title) == "" || strings.TrimSpace(req.Address.Detail) == "" {
		return models.Order{}, errors.New("shipping address is required")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return models.Order{}, errors.New("invalid productId")
		}
		if item.Quantity <= 0 {
			return models.Order{}, errors.New("quantity must be greater than zero")
		}
		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	return models.Order{
		UserID: userID,
		Items:  items,
		Address: models.OrderAddress{
			Title:  strings.TrimSpace(req.Address.Title),
			Detail: strings.TrimSpace(req.Address.Detail),
			Note:   strings.TrimSpace(req.Address.Note),
		},
		Status:    models.OrderPending,
		CreatedAt: time.Now(),
	}, nil
}

// GetOrder returns one order with its owner populated, to the owner or an
// admin.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		actor, ok := actorFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := payments.AuthorizeOrderView(actor, order.UserID); err != nil {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		owner := gin.H{"id": order.UserID.Hex()}
		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&user); err == nil {
			owner["name"] = user.Name
			owner["email"] = user.Email
		}

		c.JSON(http.StatusOK, gin.H{
			"order": order,
			"owner": owner,
		})
	}
}

// GetMyOrders lists the authenticated user's orders, newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		actor, ok := actorFromContext(c)
		if !ok || actor.ID.IsZero() {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": actor.ID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GetAllOrders is the admin order list.
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}

		cursor, err := db.Collection("orders").Find(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the admin reconciliation action that drives the order
// state machine.
func UpdateOrderStatus(svc *payments.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.ApplyStatus(ctx, orderID, models.OrderStatus(req.Status))
		if err != nil {
			var verr payments.ValidationError
			switch {
			case errors.As(err, &verr):
				respondWithError(c, http.StatusBadRequest, route, verr.Error())
			case errors.Is(err, payments.ErrOrderNotFound):
				respondWithError(c, http.StatusNotFound, route, "order not found")
			case errors.Is(err, payments.ErrInvalidTransition):
				respondWithError(c, http.StatusConflict, route, err.Error())
			default:
				respondWithError(c, http.StatusInternalServerError, route, "db error")
			}
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
