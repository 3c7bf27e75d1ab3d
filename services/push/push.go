package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sportcenter_go/config"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the push gateway (Expo-compatible JSON API). Delivery is
// best-effort: failures are logged and never propagated to the request
// that triggered the notification.
type Client struct {
	url        string
	httpClient *http.Client
}

type pushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title,omitempty"`
	Body  string                 `json:"body"`
	Sound string                 `json:"sound,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

func NewClient() *Client {
	return &Client{
		url: config.AppConfig.PushGatewayURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send delivers one push message to a device token.
func (c *Client) Send(token, title, body, notificationType string) error {
	if token == "" {
		return fmt.Errorf("empty push token")
	}

	msg := pushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Sound: "default",
		Data:  map[string]interface{}{"type": notificationType},
	}

	payload, err := json.Marshal([]pushMessage{msg})
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// SendAsync fires the push in a goroutine; errors are only logged.
func (c *Client) SendAsync(token, title, body, notificationType string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in push goroutine")
			}
		}()
		if err := c.Send(token, title, body, notificationType); err != nil {
			logrus.WithError(err).WithField("type", notificationType).Warn("Push notification delivery failed")
		}
	}()
}
