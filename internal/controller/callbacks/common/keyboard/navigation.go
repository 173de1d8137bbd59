package keyboard

import "github.com/go-telegram/bot/models"

const (
	CallbackBackToMain = "back_to_main"
	CallbackNoop       = "noop"
)

func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Back", callbackData)
}

func BackToMainButton() models.InlineKeyboardButton {
	return Button("🏠 Main menu", CallbackBackToMain)
}

func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Cancel", callbackData)
}

func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Confirm", callbackData)
}

// YesNoButtons returns a single row with Yes and No
func YesNoButtons(yesCallback, noCallback string) [][]models.InlineKeyboardButton {
	return [][]models.InlineKeyboardButton{
		{
			Button("✅ Yes", yesCallback),
			Button("❌ No", noCallback),
		},
	}
}

func BackRow(callbackData string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{BackButton(callbackData)}
}

func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

func (b *Builder) AddBackToMainButton() *Builder {
	return b.Row(BackToMainButton())
}

// Mark prefixes text with a check when selected
func Mark(text string, selected bool) string {
	if selected {
		return "✅ " + text
	}
	return text
}
