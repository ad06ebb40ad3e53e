package ui

import (
	"github.com/rivo/tview"

	"agora/internal/api"
)

// LoginScreen holds the login and registration forms. Registration flips
// back to login on success, matching the server's two-step flow.
type LoginScreen struct {
	*UI
	Layout *tview.Flex

	form     *tview.Form
	regForm  *tview.Form
	errText  *tview.TextView
	pages    *tview.Pages
}

func (l *LoginScreen) Init() {
	l.errText = tview.NewTextView()
	l.errText.SetTextColor(l.Theme.GetColor("red")).
		SetTextAlign(tview.AlignCenter)

	l.form = tview.NewForm().
		AddInputField("Username or e-mail", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil)
	l.form.AddButton("Log in", l.submitLogin).
		AddButton("Register", func() { l.pages.SwitchToPage("register") }).
		AddButton("Quit", func() { l.App.Stop() })
	l.form.SetBorder(true).
		SetTitle("[ Agora ]").
		SetTitleColor(l.Theme.GetColor("primary")).
		SetBorderColor(l.Theme.GetColor("border")).
		SetBackgroundColor(l.Theme.GetColor("background"))

	l.regForm = tview.NewForm().
		AddInputField("Username", "", 40, nil, nil).
		AddInputField("Age", "", 6, nil, nil).
		AddDropDown("Gender", []string{"female", "male", "other"}, 0, nil).
		AddInputField("First name", "", 40, nil, nil).
		AddInputField("Last name", "", 40, nil, nil).
		AddInputField("E-mail", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil)
	l.regForm.AddButton("Create account", l.submitRegister).
		AddButton("Back", func() { l.pages.SwitchToPage("login") })
	l.regForm.SetBorder(true).
		SetTitle("[ Register ]").
		SetTitleColor(l.Theme.GetColor("primary")).
		SetBorderColor(l.Theme.GetColor("border")).
		SetBackgroundColor(l.Theme.GetColor("background"))

	l.pages = tview.NewPages().
		AddPage("login", center(l.form, 60, 11), true, true).
		AddPage("register", center(l.regForm, 60, 19), true, false)

	l.Layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(l.pages, 0, 1, true).
		AddItem(l.errText, 1, 0, false)
}

func (l *LoginScreen) submitLogin() {
	user := l.form.GetFormItemByLabel("Username or e-mail").(*tview.InputField).GetText()
	pass := l.form.GetFormItemByLabel("Password").(*tview.InputField).GetText()

	l.setError("")
	go func() {
		if err := l.Handlers.Login(user, pass); err != nil {
			l.App.QueueUpdateDraw(func() { l.setError(err.Error()) })
			return
		}
		l.App.QueueUpdateDraw(func() {
			l.form.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
			l.ShowMain(user)
		})
	}()
}

func (l *LoginScreen) submitRegister() {
	_, gender := l.regForm.GetFormItemByLabel("Gender").(*tview.DropDown).GetCurrentOption()
	form := api.RegisterForm{
		Username:  l.regField("Username"),
		Age:       l.regField("Age"),
		Gender:    gender,
		FirstName: l.regField("First name"),
		LastName:  l.regField("Last name"),
		Email:     l.regField("E-mail"),
		Password:  l.regField("Password"),
	}

	l.setError("")
	go func() {
		if err := l.Handlers.Register(form); err != nil {
			l.App.QueueUpdateDraw(func() { l.setError(err.Error()) })
			return
		}
		l.App.QueueUpdateDraw(func() {
			l.setError("User registered, log in to continue")
			l.pages.SwitchToPage("login")
		})
	}()
}

func (l *LoginScreen) regField(label string) string {
	return l.regForm.GetFormItemByLabel(label).(*tview.InputField).GetText()
}

func (l *LoginScreen) setError(msg string) {
	l.errText.SetText(msg)
}

// center wraps a primitive in spacers so it floats mid-screen.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
