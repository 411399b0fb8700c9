// Package halation is an image-effects pipeline: a still image is
// letterboxed onto a canvas, run through an ordered chain of effect nodes
// (Halation, Glow, Grain) and presented to a display surface, from which
// the result can be exported clipped to the image.
//
// # Quick Start
//
//	c, err := halation.New(halation.WithCanvasSize(1280, 720))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.LoadImage(img); err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Dispatch(halation.SetParam{Index: 0, Key: "amount", Value: "1.2"}); err != nil {
//	    log.Fatal(err)
//	}
//	out, err := c.Export()
//
// # Architecture
//
// The Controller owns the render context, the texture pool, the source
// texture and the display surface. Pipeline state changes only through
// immutable commands applied by Pipeline.Apply; Controller.Dispatch
// applies a command and renders once.
//
// Each frame the Executor walks the nodes in order. Node i writes the
// ping-pong target Output(i), selected by index parity, so no node ever
// writes the texture it reads. Disabled and bypassed nodes copy their
// input through. The last result is presented through the View transform.
//
// # Logging
//
// The package is silent by default. Call SetLogger to enable log output.
package halation
