package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService pushes storefront events to an admin chat. All methods are
// no-ops when the bot token or chat ID is not configured.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// OrderNotification contains order data for the admin notification.
type OrderNotification struct {
	OrderID         string
	Items           []OrderItemNotification
	TotalAmount     float64
	DownPayment     float64
	ShippingAddress string
	CustomerName    string
	CustomerEmail   string
}

// OrderItemNotification contains one line of the order.
type OrderItemNotification struct {
	Name     string
	Variant  string
	Quantity int
	Price    float64
}

// FormatPeso formats an amount with thousand separators and the peso sign.
func FormatPeso(amount float64) string {
	intAmount := int64(amount)
	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return "₱" + result.String()
}

// NotifyNewOrder sends a new-order notification to the admin chat.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		name := item.Name
		if item.Variant != "" {
			name = fmt.Sprintf("%s (%s)", name, item.Variant)
		}
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			name,
			item.Quantity,
			FormatPeso(item.Price),
			FormatPeso(item.Price*float64(item.Quantity)),
		))
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>📋 Order:</b> %s
<b>👤 Customer:</b> %s (%s)
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s
<b>💵 Down payment:</b> %s
<b>🏠 Ship to:</b> %s`,
		order.OrderID,
		order.CustomerName,
		order.CustomerEmail,
		itemsList.String(),
		FormatPeso(order.TotalAmount),
		FormatPeso(order.DownPayment),
		order.ShippingAddress,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyPaymentRecorded sends a payment notification to the admin chat.
func (s *TelegramService) NotifyPaymentRecorded(orderID, paymentType string, amount float64) error {
	if s.adminChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>✅ PAYMENT RECORDED</b>
<b>📋 Order:</b> %s
<b>💳 Type:</b> %s
<b>💰 Amount:</b> %s`,
		orderID,
		paymentType,
		FormatPeso(amount),
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
