//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-spectral2d/internal/imageio"
	"github.com/cwbudde/algo-spectral2d/internal/webdemo"
)

const defaultReferenceSize = 256

var (
	engine *webdemo.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()

	// init([referenceSize]) loads the reference chart so panels are
	// available before the first upload.
	api.Set("init", export(func(args []js.Value) any {
		size := defaultReferenceSize
		if len(args) > 0 && args[0].Type() == js.TypeNumber {
			size = args[0].Int()
		}
		e := webdemo.NewEngine()
		if err := e.SetImage(imageio.Reference(size)); err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	// loadImage(bytes: Uint8Array, [maxSize]) decodes and filters an upload.
	api.Set("loadImage", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return "engine not initialized"
		}
		data := make([]byte, args[0].Length())
		js.CopyBytesToGo(data, args[0])
		maxSize := 0
		if len(args) > 1 && args[1].Type() == js.TypeNumber {
			maxSize = args[1].Int()
		}
		if err := engine.LoadImage(data, maxSize); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	// setRadius(n) returns the radius actually applied.
	api.Set("setRadius", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return -1
		}
		r, err := engine.SetRadius(args[0].Int())
		if err != nil {
			return err.Error()
		}
		return r
	}))

	api.Set("radius", export(func(args []js.Value) any {
		if engine == nil {
			return -1
		}
		return engine.Radius()
	}))

	// panel(name) returns the PNG bytes of one panel.
	api.Set("panel", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Uint8Array").New(0)
		}
		b, err := engine.Panel(args[0].String())
		if err != nil {
			return js.Global().Get("Uint8Array").New(0)
		}
		arr := js.Global().Get("Uint8Array").New(len(b))
		js.CopyBytesToJS(arr, b)
		return arr
	}))

	api.Set("panelNames", export(func(args []js.Value) any {
		names := make([]any, len(webdemo.PanelNames))
		for i, n := range webdemo.PanelNames {
			names[i] = n
		}
		return js.ValueOf(names)
	}))

	api.Set("explanation", export(func(args []js.Value) any {
		return webdemo.Explanation
	}))

	js.Global().Set("FourierFilterDemo", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
