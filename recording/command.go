package recording

import (
	"image/color"

	"github.com/gogpu/svg/geom"
	"github.com/gogpu/svg/surface"
)

// CommandType identifies the type of a command.
// Each command type corresponds to a specific drawing operation.
type CommandType uint8

const (
	// State commands
	CmdSave      CommandType = iota // Save current state
	CmdRestore                      // Restore previous state
	CmdClip                         // Intersect the clip region
	CmdPushLayer                    // Begin an opacity layer
	CmdPopLayer                     // Composite the top layer

	// Drawing commands
	CmdFillPath     // Fill a path
	CmdStrokePath   // Stroke a path
	CmdFillText     // Fill text
	CmdStrokeText   // Stroke text
	CmdDrawImage    // Draw an image into a rectangle
	CmdPutImageData // Copy raw pixels
	CmdClear        // Clear the target
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSave:         "Save",
	CmdRestore:      "Restore",
	CmdClip:         "Clip",
	CmdPushLayer:    "PushLayer",
	CmdPopLayer:     "PopLayer",
	CmdFillPath:     "FillPath",
	CmdStrokePath:   "StrokePath",
	CmdFillText:     "FillText",
	CmdStrokeText:   "StrokeText",
	CmdDrawImage:    "DrawImage",
	CmdPutImageData: "PutImageData",
	CmdClear:        "Clear",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// --------------------------------------------------------------------------
// Reference Types
// --------------------------------------------------------------------------

// PathRef is a reference to a path in the resource pool.
type PathRef uint32

// PaintRef is a reference to a paint in the resource pool.
type PaintRef uint32

// ImageRef is a reference to an image in the resource pool.
type ImageRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a valid path.
func (r PathRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// IsValid returns true if the reference points to a valid paint.
func (r PaintRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// IsValid returns true if the reference points to a valid image.
func (r ImageRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// Draw holds the state a drawing command was issued under.
type Draw struct {
	// Matrix is the current matrix when the command was issued. Paths are
	// already in device space; the matrix places paints, text and images.
	Matrix geom.Matrix
	// Alpha is the global alpha.
	Alpha float64
}

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// SaveCommand saves the current graphics state.
type SaveCommand struct{}

// Type implements Command.
func (SaveCommand) Type() CommandType { return CmdSave }

// RestoreCommand restores the previously saved graphics state.
type RestoreCommand struct{}

// Type implements Command.
func (RestoreCommand) Type() CommandType { return CmdRestore }

// ClipCommand intersects the clip region with a path.
type ClipCommand struct {
	// Path references the device-space clip path.
	Path PathRef
	// Rule specifies the fill rule for determining inside/outside.
	Rule surface.FillRule
}

// Type implements Command.
func (ClipCommand) Type() CommandType { return CmdClip }

// PushLayerCommand begins a layer composited with Opacity.
type PushLayerCommand struct {
	Opacity float64
}

// Type implements Command.
func (PushLayerCommand) Type() CommandType { return CmdPushLayer }

// PopLayerCommand ends the innermost layer.
type PopLayerCommand struct{}

// Type implements Command.
func (PopLayerCommand) Type() CommandType { return CmdPopLayer }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// FillPathCommand fills a path with a paint.
type FillPathCommand struct {
	Draw
	// Path references the path to fill in the resource pool.
	Path PathRef
	// Paint references the fill paint in the resource pool.
	Paint PaintRef
	// Rule specifies the fill rule (non-zero or even-odd).
	Rule surface.FillRule
}

// Type implements Command.
func (FillPathCommand) Type() CommandType { return CmdFillPath }

// StrokePathCommand strokes a path with a paint.
type StrokePathCommand struct {
	Draw
	Path  PathRef
	Paint PaintRef
	// Style is the stroke geometry in user units.
	Style surface.StrokeStyle
}

// Type implements Command.
func (StrokePathCommand) Type() CommandType { return CmdStrokePath }

// TextCommand draws a string with its baseline origin at (X, Y) in user
// space.
type TextCommand struct {
	Draw
	Text  string
	X, Y  float64
	Font  surface.Font
	Paint PaintRef
	// Style is set for stroked text.
	Style surface.StrokeStyle
	// Stroked selects StrokeText over FillText.
	Stroked bool
}

// Type implements Command.
func (c TextCommand) Type() CommandType {
	if c.Stroked {
		return CmdStrokeText
	}
	return CmdFillText
}

// DrawImageCommand draws an image stretched over a user-space rectangle.
type DrawImageCommand struct {
	Draw
	Image      ImageRef
	X, Y, W, H float64
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// PutImageDataCommand copies pixels to device position (X, Y).
type PutImageDataCommand struct {
	Image ImageRef
	X, Y  int
}

// Type implements Command.
func (PutImageDataCommand) Type() CommandType { return CmdPutImageData }

// ClearCommand clears the target to Color.
type ClearCommand struct {
	Color color.Color
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }
