package view

// Focus is the focused-device selection. It always points at a member of
// the current address list, or at nothing when the list is empty. Moving the
// focus never triggers a fetch; the renderer reuses the slot state it has.
type Focus struct {
	addresses []string
	index     int
}

// NewFocus focuses the first address.
func NewFocus(addresses []string) Focus {
	return Focus{addresses: append([]string(nil), addresses...)}
}

// Index returns the focused slot index, or -1 when nothing is configured.
func (f Focus) Index() int {
	if len(f.addresses) == 0 {
		return -1
	}
	return f.index
}

// Address returns the focused address, or "" when nothing is configured.
func (f Focus) Address() string {
	if len(f.addresses) == 0 {
		return ""
	}
	return f.addresses[f.index]
}

// Len returns the number of selectable addresses.
func (f Focus) Len() int {
	return len(f.addresses)
}

// Switchable reports whether there is more than one address to choose from.
func (f Focus) Switchable() bool {
	return len(f.addresses) > 1
}

// Set focuses the first slot configured for address. Unknown addresses leave
// the focus unchanged and return false.
func (f *Focus) Set(address string) bool {
	for i, addr := range f.addresses {
		if addr == address {
			f.index = i
			return true
		}
	}
	return false
}

// SetIndex focuses slot i when it exists.
func (f *Focus) SetIndex(i int) bool {
	if i < 0 || i >= len(f.addresses) {
		return false
	}
	f.index = i
	return true
}

// Next moves to the following address, wrapping around.
func (f *Focus) Next() {
	if len(f.addresses) == 0 {
		return
	}
	f.index = (f.index + 1) % len(f.addresses)
}

// Prev moves to the preceding address, wrapping around.
func (f *Focus) Prev() {
	if len(f.addresses) == 0 {
		return
	}
	f.index = (f.index - 1 + len(f.addresses)) % len(f.addresses)
}

// Reset adopts a new address list. The current address stays focused when it
// is still configured; otherwise the first address is.
func (f *Focus) Reset(addresses []string) {
	current := f.Address()
	f.addresses = append([]string(nil), addresses...)
	f.index = 0
	if current != "" {
		f.Set(current)
	}
}
