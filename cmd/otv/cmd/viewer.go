package cmd

import (
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/render"
)

// runViewer opens a window showing cell and blocks until it is closed.
func runViewer(title string, cell *design.Cell, grid float64) error {
	go func() {
		w := new(app.Window)
		w.Option(app.Title(title))
		w.Option(app.Size(unit.Dp(1000), unit.Dp(800)))

		if err := newViewer(cell, grid).run(w); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

type viewer struct {
	cell *design.Cell
	grid float64

	th     *theme.Theme
	camera *render.Camera
	fitted bool

	showGrid bool
	dragging bool
	lastPos  f32.Point

	fitBtn, gridBtn, closeBtn    widget.Clickable
	fitIcon, gridIcon, closeIcon *widget.Icon
}

func newViewer(cell *design.Cell, grid float64) *viewer {
	v := &viewer{
		cell:     cell,
		grid:     grid,
		th:       theme.NewTheme("", nil, true),
		camera:   render.NewCamera(1000, 800),
		showGrid: true,
	}
	if icon, err := widget.NewIcon(icons.NavigationFullscreen); err == nil {
		v.fitIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ImageGridOn); err == nil {
		v.gridIcon = icon
	}
	if icon, err := widget.NewIcon(icons.NavigationClose); err == nil {
		v.closeIcon = icon
	}
	return v
}

func (v *viewer) run(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			if v.handleKeys(gtx) || v.closeBtn.Clicked(gtx) {
				return nil
			}
			if v.fitBtn.Clicked(gtx) {
				v.fit()
			}
			if v.gridBtn.Clicked(gtx) {
				v.showGrid = !v.showGrid
			}

			layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(v.layoutToolbar),
				layout.Flexed(1, v.layoutCanvas),
			)
			e.Frame(gtx.Ops)
		}
	}
}

func (v *viewer) fit() {
	v.camera.Rotation = 0
	v.camera.FlipView = false
	v.camera.Fit(v.cell.Bounds())
}

// handleKeys reports whether the viewer should close.
func (v *viewer) handleKeys(gtx layout.Context) bool {
	for {
		ev, ok := gtx.Event(key.Filter{})
		if !ok {
			return false
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		switch ke.Name {
		case key.NameEscape, "Q":
			return true
		case "F":
			v.camera.Flip()
		case "R":
			v.camera.Rotate(90)
		case key.NameLeftArrow:
			v.camera.Rotate(-90)
		case "G":
			v.showGrid = !v.showGrid
		case key.NameSpace:
			v.fit()
		}
		gtx.Execute(op.InvalidateCmd{})
	}
}

func (v *viewer) layoutToolbar(gtx layout.Context) layout.Dimensions {
	bar := func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(v.iconButton(&v.fitBtn, v.fitIcon, "Fit")),
			layout.Rigid(v.iconButton(&v.gridBtn, v.gridIcon, "Grid")),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				status := fmt.Sprintf("%s: %d node(s), grid %g lambda, zoom %.1f px/lambda",
					v.cell.Name, len(v.cell.Nodes), v.grid, v.camera.Zoom)
				return layout.Inset{Left: unit.Dp(12)}.Layout(gtx, material.Body2(v.th.Theme, status).Layout)
			}),
			layout.Rigid(v.iconButton(&v.closeBtn, v.closeIcon, "Close")),
		)
	}

	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(unit.Dp(4)).Layout(gtx, bar)
	call := macro.Stop()
	paint.FillShape(gtx.Ops, v.th.Bg2, clip.Rect{Max: dims.Size}.Op())
	call.Add(gtx.Ops)
	return dims
}

func (v *viewer) iconButton(btn *widget.Clickable, icon *widget.Icon, label string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		if icon == nil {
			return material.Button(v.th.Theme, btn, label).Layout(gtx)
		}
		b := material.IconButton(v.th.Theme, btn, icon, label)
		b.Size = unit.Dp(20)
		b.Inset = layout.UniformInset(unit.Dp(6))
		return layout.UniformInset(unit.Dp(2)).Layout(gtx, b.Layout)
	}
}

func (v *viewer) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	v.camera.Resize(size.X, size.Y)
	if !v.fitted && size.X > 0 && size.Y > 0 {
		v.fit()
		v.fitted = true
	}

	v.handlePointer(gtx)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, v)

	paint.FillShape(gtx.Ops, render.ColorBackground, clip.Rect{Max: size}.Op())
	if v.showGrid {
		render.DrawGrid(gtx, v.camera, v.grid)
	}
	render.DrawAxes(gtx, v.camera)
	render.DrawCell(gtx, v.camera, v.cell)

	return layout.Dimensions{Size: size}
}

func (v *viewer) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			return
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonSecondary {
				v.camera.Flip()
				break
			}
			v.dragging = true
			v.lastPos = pe.Position
		case pointer.Drag:
			if v.dragging {
				d := pe.Position.Sub(v.lastPos)
				v.camera.Pan(float64(d.X), float64(d.Y))
				v.lastPos = pe.Position
			}
		case pointer.Release, pointer.Cancel:
			v.dragging = false
		case pointer.Scroll:
			if pe.Scroll.Y == 0 {
				continue
			}
			factor := 1.1
			if pe.Scroll.Y > 0 {
				factor = 1 / factor
			}
			v.camera.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)
		}
		gtx.Execute(op.InvalidateCmd{})
	}
}
