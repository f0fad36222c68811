package container

// The GIF packed bytes (logical screen descriptor, image descriptor, GCE)
// are marshaled and unmarshaled field-by-field with explicit masks and
// shifts; a struct overlay cannot represent their bit layout portably.

func marshalLSDPacked(d LogicalScreenDescriptor) byte {
	var b byte
	if d.GCTPresent {
		b |= 1 << 7
	}
	b |= (d.ColorResolution & 0x7) << 4
	if d.SortFlag {
		b |= 1 << 3
	}
	b |= d.GCTSize & 0x7
	return b
}

func unmarshalLSDPacked(b byte) (gctPresent bool, colorResolution byte, sortFlag bool, gctSize byte) {
	gctPresent = b&(1<<7) != 0
	colorResolution = (b >> 4) & 0x7
	sortFlag = b&(1<<3) != 0
	gctSize = b & 0x7
	return
}

func marshalImageDescriptorPacked(d ImageDescriptor) byte {
	var b byte
	if d.LCTPresent {
		b |= 1 << 7
	}
	if d.Interlaced {
		b |= 1 << 6
	}
	if d.Sorted {
		b |= 1 << 5
	}
	b |= d.LCTSize & 0x7
	return b
}

func unmarshalImageDescriptorPacked(b byte) (lctPresent, interlaced, sorted bool, lctSize byte) {
	lctPresent = b&(1<<7) != 0
	interlaced = b&(1<<6) != 0
	sorted = b&(1<<5) != 0
	lctSize = b & 0x7
	return
}

func marshalGCEPacked(g GraphicsControlExtension) byte {
	var b byte
	b |= (byte(g.Disposal) & 0x7) << 2
	if g.UserInput {
		b |= 1 << 1
	}
	if g.TransparentEnabled {
		b |= 1
	}
	return b
}

func unmarshalGCEPacked(b byte) (disposal DisposalMethod, userInput, transparentEnabled bool) {
	disposal = DisposalMethod((b >> 2) & 0x7)
	userInput = b&(1<<1) != 0
	transparentEnabled = b&1 != 0
	return
}
