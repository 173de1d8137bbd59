package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Lists longer than this get first/last jump buttons
const jumpThreshold = 5

// ClampPage keeps a 0-based page inside [0, pages)
func ClampPage(page, pages int) int {
	if pages <= 0 || page < 0 {
		return 0
	}
	if page >= pages {
		return pages - 1
	}
	return page
}

// PageRow is the ⬅️ 📄 n/m ➡️ row for a paged list. Callback data is prefix+page.
func PageRow(prefix string, page, pages int) []models.InlineKeyboardButton {
	if pages <= 1 {
		return nil
	}
	page = ClampPage(page, pages)
	to := func(p int) string { return fmt.Sprintf("%s%d", prefix, p) }

	var row []models.InlineKeyboardButton
	if pages > jumpThreshold && page > 1 {
		row = append(row, Button("⏮", to(0)))
	}
	if page > 0 {
		row = append(row, Button("⬅️", to(page-1)))
	}

	row = append(row, Button(fmt.Sprintf("📄 %d/%d", page+1, pages), CallbackNoop))

	if page < pages-1 {
		row = append(row, Button("➡️", to(page+1)))
	}
	if pages > jumpThreshold && page < pages-2 {
		row = append(row, Button("⏭", to(pages-1)))
	}
	return row
}

func (b *Builder) AddPagination(prefix string, page, pages int) *Builder {
	if row := PageRow(prefix, page, pages); len(row) > 0 {
		b.Row(row...)
	}
	return b
}
