package service

import (
	"fmt"
	"strings"

	"chatmart/internal/model"
)

const welcomeMessage = "ยินดีด้วยสมาชิกใหม่"

// orderSummary is the chat message sent after an order commits.
func orderSummary(order *model.Order, items []model.OrderItemRequest) string {
	var b strings.Builder
	b.WriteString("รายละเอียดออเดอร์ที่สั่ง\n")
	fmt.Fprintf(&b, "🧑 ชื่อลูกค้า: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "📞 เบอร์โทร: %s\n", order.Phone)
	fmt.Fprintf(&b, "🏠 ที่อยู่: %s\n", order.Address)
	fmt.Fprintf(&b, "📦 รหัสคำสั่งซื้อ: %d\n", order.ID)
	fmt.Fprintf(&b, "🚚 วิธีรับสินค้า: %s\n", order.DeliveryMethod.Label())
	fmt.Fprintf(&b, "💰 ยอดรวม: ฿%s\n", order.TotalPrice.String())
	b.WriteString("\n🛍️ รายการสินค้า:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s × %d\n", item.ProductName, item.Quantity)
	}
	b.WriteString("\n🙏 ขอบคุณที่สั่งซื้อกับเรา")
	return b.String()
}

// deliveryNotice is the chat message sent after a delivery update commits.
func deliveryNotice(orderID int64, status string, etaMinutes int) string {
	return fmt.Sprintf("📦 คำสั่งซื้อของคุณ (หมายเลข: %d)\n🚚 สถานะ: %s\n🕒 จะถึงภายใน: %d นาที", orderID, status, etaMinutes)
}
