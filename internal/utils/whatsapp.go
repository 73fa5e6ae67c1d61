package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// WhatsAppClient — тонкий клиент WhatsApp Cloud API (или имитация в dry-run).
type WhatsAppClient struct {
	Token   string
	PhoneID string // идентификатор отправляющего номера
	DryRun  bool

	httpClient *http.Client
}

type waSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func NewWhatsAppClient(token, phoneID string, dryRun bool) *WhatsAppClient {
	return &WhatsAppClient{Token: token, PhoneID: phoneID, DryRun: dryRun, httpClient: &http.Client{}}
}

// SendTemplate — отправка шаблонного сообщения (auth_otp, access_code и т.п.).
func (c *WhatsAppClient) SendTemplate(to, templateName string, params []string) error {
	// DRY-RUN: не делаем HTTP-запрос
	if c.DryRun || c.Token == "" || c.Token == "dry-run" {
		fmt.Printf("[whatsapp][dry-run] to=%s template=%s params=%v\n", to, templateName, params)
		return nil
	}

	components := []map[string]any{}
	if len(params) > 0 {
		ps := make([]map[string]string, 0, len(params))
		for _, p := range params {
			ps = append(ps, map[string]string{"type": "text", "text": p})
		}
		components = append(components, map[string]any{"type": "body", "parameters": ps})
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                strings.TrimPrefix(to, "+"),
		"type":              "template",
		"template": map[string]any{
			"name":       templateName,
			"language":   map[string]string{"code": "es_MX"},
			"components": components,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	apiURL := fmt.Sprintf("https://graph.facebook.com/v19.0/%s/messages", c.PhoneID)
	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var result waSendResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("parse whatsapp response: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("whatsapp api error %d: %s", result.Error.Code, result.Error.Message)
	}
	return nil
}
