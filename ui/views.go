package ui

import (
	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/snowfight/assets"
)

// MenuView is the title panel shown while the menu level is current.
type MenuView struct {
	ui     *ebitenui.UI
	prompt *widget.Text
}

func NewMenuView(title string, width, height int) *MenuView {
	face := assets.Face()

	titleText := widget.NewText(
		widget.TextOpts.Text(title, &face, assets.Text),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	prompt := widget.NewText(
		widget.TextOpts.Text("press any key", &face, assets.Text),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	panel := newPanel(width/2, height/3, widget.AnchorLayoutPositionCenter)
	panel.AddChild(titleText)
	panel.AddChild(prompt)

	return &MenuView{ui: newRoot(panel), prompt: prompt}
}

// SetPrompt replaces the line under the title.
func (v *MenuView) SetPrompt(s string) { v.prompt.Label = s }

func (v *MenuView) Update()                   { v.ui.Update() }
func (v *MenuView) Draw(screen *ebiten.Image) { v.ui.Draw(screen) }

// OverlayView renders a LoadingOverlay as a strip along the bottom of the
// screen.
type OverlayView struct {
	overlay *LoadingOverlay
	ui      *ebitenui.UI
	label   *widget.Text
	shown   bool
}

func NewOverlayView(overlay *LoadingOverlay, width int) *OverlayView {
	face := assets.Face()
	label := widget.NewText(
		widget.TextOpts.Text("", &face, assets.Text),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	panel := newPanel(width, 40, widget.AnchorLayoutPositionEnd)
	panel.AddChild(label)

	return &OverlayView{overlay: overlay, ui: newRoot(panel), label: label}
}

// Update copies the overlay's status into the label.
func (v *OverlayView) Update() {
	status := v.overlay.Status()
	v.shown = status != ""
	if !v.shown {
		return
	}
	v.label.Label = status
	v.ui.Update()
}

func (v *OverlayView) Draw(screen *ebiten.Image) {
	if v.shown {
		v.ui.Draw(screen)
	}
}

func newPanel(width, height int, vertical widget.AnchorLayoutPosition) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(assets.Panel)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, height),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: vertical}),
		),
	)
}

func newRoot(panel *widget.Container) *ebitenui.UI {
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}
