package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/recaudacion/rifas-api/internal/api/handler/v1/response"
	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/service"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
	feedBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type CampaignFinder interface {
	GetCampaign(ctx context.Context, id uint) (domain.Campaign, error)
}

type feedClient struct {
	conn       *websocket.Conn
	send       chan []byte
	campaignID uint
}

// SaleFeed fans committed sale events out to the websocket subscribers of
// each campaign.
type SaleFeed struct {
	svc     CampaignFinder
	clients map[uint]map[*feedClient]struct{}
	mu      sync.RWMutex

	events     chan domain.SaleEvent
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

func NewSaleFeed(svc CampaignFinder) *SaleFeed {
	return &SaleFeed{
		svc:        svc,
		clients:    make(map[uint]map[*feedClient]struct{}),
		events:     make(chan domain.SaleEvent, feedBufferSize),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Publish queues event for delivery. It never blocks the sale that produced
// it; events are dropped when the queue is full.
func (f *SaleFeed) Publish(event domain.SaleEvent) {
	select {
	case f.events <- event:
	default:
		zap.L().Warn("sale feed queue full, dropping event",
			zap.Uint("campaign_id", event.CampaignID), zap.Uint("sale_id", event.SaleID))
	}
}

// Run dispatches events until ctx is done. It must only be started once.
func (f *SaleFeed) Run(ctx context.Context) {
	defer close(f.done)

	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return
		case client := <-f.register:
			f.mu.Lock()
			if f.clients[client.campaignID] == nil {
				f.clients[client.campaignID] = make(map[*feedClient]struct{})
			}
			f.clients[client.campaignID][client] = struct{}{}
			f.mu.Unlock()
		case client := <-f.unregister:
			f.mu.Lock()
			f.remove(client)
			f.mu.Unlock()
		case event := <-f.events:
			f.broadcast(event)
		}
	}
}

func (f *SaleFeed) broadcast(event domain.SaleEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("failed to encode sale event", zap.Error(err))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients[event.CampaignID] {
		select {
		case client.send <- message:
		default:
			f.remove(client)
		}
	}
}

// remove must be called with mu held.
func (f *SaleFeed) remove(client *feedClient) {
	subscribers, ok := f.clients[client.campaignID]
	if !ok {
		return
	}
	if _, ok = subscribers[client]; !ok {
		return
	}

	delete(subscribers, client)
	close(client.send)
	if len(subscribers) == 0 {
		delete(f.clients, client.campaignID)
	}
}

func (f *SaleFeed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, subscribers := range f.clients {
		for client := range subscribers {
			f.remove(client)
		}
	}
}

// Subscribers returns how many clients follow campaignID.
func (f *SaleFeed) Subscribers(campaignID uint) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.clients[campaignID])
}

// HandleFeed godoc
// @Summary      Follow the sales of a campaign
// @Description  Upgrades to a websocket that receives an event after every committed sale create, update or deactivation of the campaign.
// @Tags         rifas
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      101         {string}  string  "Switching Protocols"
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /rifas/{campaignID}/feed [get]
// @Security BearerAuth
func (f *SaleFeed) HandleFeed(ctx *gin.Context) {
	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := f.svc.GetCampaign(ctx.Request.Context(), campaignID); err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleFeed -> f.svc.GetCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn:       conn,
		send:       make(chan []byte, feedBufferSize),
		campaignID: campaignID,
	}
	select {
	case f.register <- client:
	case <-f.done:
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(f)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; the feed is one way.
func (c *feedClient) readPump(f *SaleFeed) {
	defer func() {
		select {
		case f.unregister <- c:
		case <-f.done:
		}
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("sale feed client closed", zap.Error(err))
			}
			return
		}
	}
}
