// Package export renders finished episodes for viewing outside the terminal.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/drivesim/internal/physics"
	"github.com/san-kum/drivesim/internal/reward"
	"github.com/san-kum/drivesim/internal/viz"
)

// Scene is one episode: the markers it started with, the markers left at
// the end and the vehicle path in between.
type Scene struct {
	Viewport  viz.Viewport
	Radius    float64
	Initial   []reward.Marker
	Remaining []reward.Marker
	Path      []physics.VehicleState
}

// EpisodeSVG draws the scene in arena coordinates. Collected markers are
// green, missed ones red, and the path ends in an arrow along the final
// heading.
func EpisodeSVG(sc Scene) string {
	w, h := sc.Viewport.Width, sc.Viewport.Height

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h))

	left := make(map[reward.Marker]int, len(sc.Remaining))
	for _, m := range sc.Remaining {
		left[m]++
	}
	for _, m := range sc.Initial {
		color := "#00ff88"
		if left[m] > 0 {
			left[m]--
			color = "#ff4444"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-dasharray="4 4"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, m.Position.X, m.Position.Y, sc.Radius, color, m.Position.X, m.Position.Y, color))
	}

	if len(sc.Path) > 1 {
		sb.WriteString(`<path fill="none" stroke="#00ffff" stroke-width="1.5" d="M`)
		for i, v := range sc.Path {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", v.X, v.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", v.X, v.Y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	if n := len(sc.Path); n > 0 {
		last := sc.Path[n-1]
		sb.WriteString(fmt.Sprintf(`<g transform="translate(%.1f %.1f) rotate(%.2f)">
<polygon points="%.1f,0 0,-12 0,12" fill="#ff00ff"/>
</g>
`, last.X, last.Y, last.Heading*180/math.Pi, last.Wheelbase/2))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteEpisodeSVG(path string, sc Scene) error {
	return os.WriteFile(path, []byte(EpisodeSVG(sc)), 0644)
}
