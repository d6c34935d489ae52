package bluetooth

// Device is one Bluetooth device as shown to the user.
type Device struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	Paired    bool   `json:"paired"`
}

// Nameless reports whether the display name is only the address.
func (d Device) Nameless() bool {
	return isAddressName(d.Name, d.Address)
}

// Aggregator stores devices indexed by normalized address. Addresses passed
// in may use any accepted spelling; malformed ones are ignored.
// It is owned by a single reconciling goroutine and is not safe for
// concurrent use.
type Aggregator struct {
	devices map[string]*Device
	order   []string
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		devices: make(map[string]*Device),
	}
}

// Seed adds a device from the paired listing. A repeated address keeps the
// first record.
func (a *Aggregator) Seed(dev Device) {
	addr, ok := NormalizeAddress(dev.Address)
	if !ok {
		return
	}
	dev.Address = addr
	if _, exists := a.devices[addr]; exists {
		return
	}
	if dev.Name == "" {
		dev.Name = dev.Address
	}
	d := dev
	a.devices[dev.Address] = &d
	a.order = append(a.order, dev.Address)
}

// Observe folds one scan event into the map and reports whether the event
// created a new record.
//
// Update rules for an existing record:
//   - Paired and Connected never change
//   - Name is replaced only by a genuine name that differs from the stored
//     one (a stored address placeholder always differs)
func (a *Aggregator) Observe(ev ScanEvent) (created bool) {
	addr, ok := NormalizeAddress(ev.Address)
	if !ok {
		return false
	}
	ev.Address = addr
	name, genuine := genuineName(ev.Name, ev.Address)

	existing, exists := a.devices[ev.Address]
	if !exists {
		dev := &Device{Address: ev.Address, Name: ev.Address}
		if genuine {
			dev.Name = name
		}
		a.devices[ev.Address] = dev
		a.order = append(a.order, ev.Address)
		return true
	}

	if genuine && (name != existing.Name || existing.Nameless()) {
		existing.Name = name
	}
	return false
}

// SetName applies a looked-up name to a record that is still nameless.
func (a *Aggregator) SetName(addr, name string) bool {
	addr, _ = NormalizeAddress(addr)
	dev, ok := a.devices[addr]
	if !ok || !dev.Nameless() {
		return false
	}
	name, genuine := genuineName(name, addr)
	if !genuine {
		return false
	}
	dev.Name = name
	return true
}

// Get returns a copy of the record for addr.
func (a *Aggregator) Get(addr string) (Device, bool) {
	addr, _ = NormalizeAddress(addr)
	dev, ok := a.devices[addr]
	if !ok {
		return Device{}, false
	}
	return *dev, true
}

// Len returns the number of distinct addresses.
func (a *Aggregator) Len() int {
	return len(a.devices)
}

// Devices returns copies of all records in first-seen order.
func (a *Aggregator) Devices() []Device {
	out := make([]Device, 0, len(a.order))
	for _, addr := range a.order {
		out = append(out, *a.devices[addr])
	}
	return out
}

// Map returns copies of all records keyed by address.
func (a *Aggregator) Map() map[string]Device {
	out := make(map[string]Device, len(a.devices))
	for addr, dev := range a.devices {
		out[addr] = *dev
	}
	return out
}
