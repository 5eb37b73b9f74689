package notify

import (
	"fmt"
	"strings"

	"quedee/internal/domain"
)

// Message templates keep the wording deployed clients already show. The
// customer confirmation must keep the `<site>?cancel=<token>` link format;
// it is the only route to token-based cancellation.

// CancelLink builds the self-service cancellation URL for a token.
func CancelLink(siteURL, token string) string {
	return siteURL + "?cancel=" + token
}

func CustomerConfirmation(to string, b domain.Booking, cancelLink string) Message {
	body := fmt.Sprintf(
		"สวัสดี %s\n\n"+
			"การจองคิวของคุณสำเร็จแล้ว\n\n"+
			"รายละเอียดการจอง:\n"+
			"• บริการ: %s\n"+
			"• วัน เวลา: %s เวลา %s\n"+
			"• ระยะเวลา: %d นาที\n"+
			"• ราคา: ฿%s\n\n"+
			"---\n\n"+
			"หากต้องการยกเลิกการจอง กรุณาคลิกลิงก์นี้:\n%s\n\n"+
			"(ลิงก์นี้ใช้ได้เฉพาะการจองนี้เท่านั้น กรุณาเก็บไว้เป็นความลับ)\n\n"+
			"ขอบคุณที่ใช้บริการของเรา!",
		b.Name, b.ServiceName, b.Date, b.Time, b.Duration, domain.FormatPrice(b.Price), cancelLink,
	)
	return Message{
		To:      to,
		Subject: "การจองคิวสำเร็จ - " + b.ServiceName,
		Body:    body,
	}
}

func AdminNewBooking(to string, b domain.Booking) Message {
	body := fmt.Sprintf(
		"มีการจองคิวใหม่เข้ามา!\n\n"+
			"ชื่อลูกค้า: %s\n"+
			"เบอร์โทร: %s\n"+
			"อีเมล: %s\n\n"+
			"บริการ: %s\n"+
			"วันที่: %s\n"+
			"เวลา: %s\n"+
			"ระยะเวลา: %d นาที\n"+
			"ราคา: ฿%s\n\n"+
			"หมายเหตุ: %s",
		b.Name, b.Phone, b.Email, b.ServiceName, b.Date, b.Time, b.Duration,
		domain.FormatPrice(b.Price), orDash(b.Notes),
	)
	return Message{
		To:      to,
		Subject: "มีการจองคิวใหม่ - " + b.ServiceName,
		Body:    body,
	}
}

func CustomerCancellation(to string, b domain.Booking) Message {
	body := fmt.Sprintf(
		"สวัสดี %s\n\n"+
			"การจองคิวของคุณได้ถูกยกเลิกแล้ว\n\n"+
			"บริการ: %s\n"+
			"วัน เวลา: %s เวลา %s\n\n"+
			"หากต้องการจองใหม่ กรุณาเข้าเว็บไซต์ของเรา\n\n"+
			"ขอบคุณครับ/ค่ะ",
		b.Name, b.ServiceName, b.Date, b.Time,
	)
	return Message{
		To:      to,
		Subject: "ยกเลิกการจองคิวสำเร็จ - " + b.ServiceName,
		Body:    body,
	}
}

// AdminCancellation distinguishes a cancellation the customer made through
// the emailed link from one the admin made in the panel.
func AdminCancellation(to string, b domain.Booking, byCustomer bool) Message {
	lead := "มีการยกเลิกนัดหมาย!"
	subject := "มีการยกเลิกนัดหมาย - " + b.ServiceName
	if byCustomer {
		lead = "ลูกค้ายกเลิกนัดหมายเอง (ผ่านลิงก์ในอีเมล)"
		subject = "ลูกค้ายกเลิกนัดหมาย - " + b.ServiceName
	}
	body := fmt.Sprintf(
		"%s\n\n"+
			"ชื่อลูกค้า: %s\n"+
			"เบอร์โทร: %s\n"+
			"อีเมล: %s\n\n"+
			"บริการ: %s\n"+
			"วันที่: %s\n"+
			"เวลา: %s",
		lead, b.Name, b.Phone, b.Email, b.ServiceName, b.Date, b.Time,
	)
	return Message{To: to, Subject: subject, Body: body}
}

func AdminServiceAdded(to string, s domain.Service) Message {
	body := fmt.Sprintf(
		"มีการเพิ่มบริการใหม่!\n\n"+
			"ชื่อบริการ: %s\n"+
			"รายละเอียด: %s\n"+
			"ราคา: ฿%s\n"+
			"ระยะเวลา: %d นาที",
		s.Name, s.Desc, domain.FormatPrice(s.Price), s.Duration,
	)
	return Message{
		To:      to,
		Subject: "มีการเพิ่มบริการใหม่ - " + s.Name,
		Body:    body,
	}
}

// AdminServiceUpdated lists only the fields that changed; an empty changes
// slice reads as "no changes".
func AdminServiceUpdated(to string, s domain.Service, changes []string) Message {
	changeList := "• ไม่มีการเปลี่ยนแปลง"
	if len(changes) > 0 {
		changeList = "• " + strings.Join(changes, "\n• ")
	}
	body := fmt.Sprintf(
		"มีการแก้ไขข้อมูลบริการ!\n\n"+
			"บริการ: %s\n\n"+
			"การเปลี่ยนแปลง:\n%s\n\n"+
			"ข้อมูลปัจจุบัน:\n"+
			"• ชื่อ: %s\n"+
			"• รายละเอียด: %s\n"+
			"• ราคา: ฿%s\n"+
			"• ระยะเวลา: %d นาที",
		s.Name, changeList, s.Name, s.Desc, domain.FormatPrice(s.Price), s.Duration,
	)
	return Message{
		To:      to,
		Subject: "มีการแก้ไขบริการ - " + s.Name,
		Body:    body,
	}
}

func AdminServiceDeleted(to string, s domain.Service) Message {
	body := fmt.Sprintf(
		"มีการลบบริการออกจากระบบ!\n\n"+
			"บริการที่ถูกลบ:\n"+
			"• ชื่อ: %s\n"+
			"• รายละเอียด: %s\n"+
			"• ราคา: ฿%s\n"+
			"• ระยะเวลา: %d นาที",
		s.Name, s.Desc, domain.FormatPrice(s.Price), s.Duration,
	)
	return Message{
		To:      to,
		Subject: "มีการลบบริการ - " + s.Name,
		Body:    body,
	}
}

func CustomerReminder(to string, b domain.Booking) Message {
	body := fmt.Sprintf(
		"สวัสดี %s\n\n"+
			"พรุ่งนี้คุณมีนัดหมายกับเรา\n\n"+
			"บริการ: %s\n"+
			"วัน เวลา: %s เวลา %s\n"+
			"ระยะเวลา: %d นาที\n\n"+
			"แล้วพบกันนะคะ/ครับ!",
		b.Name, b.ServiceName, b.Date, b.Time, b.Duration,
	)
	return Message{
		To:      to,
		Subject: "แจ้งเตือนนัดหมายวันพรุ่งนี้ - " + b.ServiceName,
		Body:    body,
	}
}

// ReminderSMSBody is the short-form reminder used for the SMS channel.
func ReminderSMSBody(b domain.Booking) string {
	return fmt.Sprintf("แจ้งเตือน: พรุ่งนี้ %s เวลา %s คุณมีนัด %s", b.Date, b.Time, b.ServiceName)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
