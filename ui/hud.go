package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/surfaceplay/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Count        int
	PoolLen      int
	PoolCap      int
	Tick         int32
	FPS          int32
	Running      bool
	Perf         telemetry.PerfStats
	TickInterval time.Duration
}

// HUDActions reports which controls were clicked this frame.
type HUDActions struct {
	TogglePause bool
	Burst       bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        10,
		y:        10,
		width:    260,
	}
}

// Draw renders the HUD and its buttons. Call between rl.BeginDrawing and
// rl.EndDrawing; the returned actions are applied by the caller.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	th := r.Theme
	pad := th.Padding

	height := 8*th.LineHeight + int32(th.ButtonHeight) + 3*pad
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + pad
	y := h.y + pad

	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Count", fmt.Sprintf("%d", data.Count))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Pool", fmt.Sprintf("%d / %d", data.PoolLen, data.PoolCap))
	y = r.DrawLabelValue(x, y, "Tick time", data.Perf.AvgTickDuration.Round(time.Microsecond).String())

	// Share of the tick budget spent simulating
	var load float32
	if data.TickInterval > 0 {
		load = float32(data.Perf.AvgTickDuration) / float32(data.TickInterval)
	}
	y = r.DrawBar(x, y, "Load", load, 0.8, h.width-2*pad)

	status, statusColor := "Running", rl.Green
	if !data.Running {
		status, statusColor = "PAUSED", rl.Yellow
	}
	rl.DrawText(status, x, y, th.FontSize, statusColor)
	y += th.LineHeight + pad/2

	var actions HUDActions
	pauseLabel := "Pause"
	if !data.Running {
		pauseLabel = "Resume"
	}
	bx := float32(x)
	by := float32(y)
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: th.ButtonWidth, Height: th.ButtonHeight}, pauseLabel) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: bx + th.ButtonWidth + 10, Y: by, Width: th.ButtonWidth, Height: th.ButtonHeight}, "Spawn burst") {
		actions.Burst = true
	}

	return actions
}

// Contains reports whether a screen point falls on the HUD panel, so clicks
// on the controls are not also treated as spawn requests.
func (h *HUD) Contains(x, y float32) bool {
	th := h.renderer.Theme
	height := 8*th.LineHeight + int32(th.ButtonHeight) + 3*th.Padding
	return x >= float32(h.x) && x <= float32(h.x+h.width) &&
		y >= float32(h.y) && y <= float32(h.y+height)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
