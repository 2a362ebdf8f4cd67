package recording

import (
	"testing"
)

func TestCommandType_String(t *testing.T) {
	tests := []struct {
		ct   CommandType
		want string
	}{
		{CmdSave, "Save"},
		{CmdRestore, "Restore"},
		{CmdClip, "Clip"},
		{CmdPushLayer, "PushLayer"},
		{CmdPopLayer, "PopLayer"},
		{CmdFillPath, "FillPath"},
		{CmdStrokePath, "StrokePath"},
		{CmdFillText, "FillText"},
		{CmdStrokeText, "StrokeText"},
		{CmdDrawImage, "DrawImage"},
		{CmdPutImageData, "PutImageData"},
		{CmdClear, "Clear"},
		{CommandType(254), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.ct.String(); got != tt.want {
				t.Errorf("CommandType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommandTypes(t *testing.T) {
	tests := []struct {
		cmd  Command
		want CommandType
	}{
		{SaveCommand{}, CmdSave},
		{RestoreCommand{}, CmdRestore},
		{ClipCommand{}, CmdClip},
		{PushLayerCommand{Opacity: 0.5}, CmdPushLayer},
		{PopLayerCommand{}, CmdPopLayer},
		{FillPathCommand{}, CmdFillPath},
		{StrokePathCommand{}, CmdStrokePath},
		{TextCommand{Text: "a"}, CmdFillText},
		{TextCommand{Text: "a", Stroked: true}, CmdStrokeText},
		{DrawImageCommand{}, CmdDrawImage},
		{PutImageDataCommand{}, CmdPutImageData},
		{ClearCommand{}, CmdClear},
	}
	for _, tt := range tests {
		if got := tt.cmd.Type(); got != tt.want {
			t.Errorf("%T.Type() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestRefValidity(t *testing.T) {
	if !PathRef(0).IsValid() || PathRef(InvalidRef).IsValid() {
		t.Error("PathRef validity")
	}
	if !PaintRef(3).IsValid() || PaintRef(InvalidRef).IsValid() {
		t.Error("PaintRef validity")
	}
	if !ImageRef(1).IsValid() || ImageRef(InvalidRef).IsValid() {
		t.Error("ImageRef validity")
	}
}
