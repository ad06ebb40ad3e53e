package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// notifyHide is how long the new-message banner stays up.
const notifyHide = 5 * time.Second

// NewMessage implements client.Notifier: a banner for a private message in
// a chat that is not open. Auto-hides.
func (ui *UI) NewMessage(sender string) {
	banner := tview.NewTextView()
	banner.SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[::b]New message from " + sender + "[-:-:-]")
	banner.SetBackgroundColor(ui.Theme.GetColor("primary")).
		SetBorder(false)

	wrapper := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(banner, 1, 0, false).
		AddItem(nil, 0, 1, false)

	ui.Pages.AddPage("notify", wrapper, true, true)

	go func() {
		time.Sleep(notifyHide)
		ui.App.QueueUpdateDraw(func() {
			ui.Pages.RemovePage("notify")
		})
	}()
}

// Error implements client.Notifier with a dismissable modal.
func (ui *UI) Error(title, message string) {
	ui.ShowError(title, message)
}

// ShowError pops a modal over whatever is on screen.
func (ui *UI) ShowError(title, message string) {
	modal := tview.NewModal()
	buttonStyle := tcell.StyleDefault.
		Background(ui.Theme.GetColor("background")).
		Foreground(ui.Theme.GetColor("red"))
	modal.SetText(message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			ui.Pages.RemovePage("error")
		}).
		SetButtonStyle(buttonStyle)
	modal.SetBackgroundColor(ui.Theme.GetColor("background")).
		SetBorder(true).
		SetBorderColor(ui.Theme.GetColor("red")).
		SetTitle(title).
		SetTitleColor(ui.Theme.GetColor("red")).
		SetTitleAlign(tview.AlignCenter)

	ui.Pages.AddPage("error", modal, true, true)
	ui.App.SetFocus(modal)
}
