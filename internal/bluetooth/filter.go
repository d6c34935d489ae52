package bluetooth

import "sort"

// Visible reports whether a device is worth showing: paired or connected
// devices always are, others only with a real name.
func Visible(d Device) bool {
	return d.Paired || d.Connected || !d.Nameless()
}

// FilterVisible drops ghost devices and keeps input order.
func FilterVisible(devices []Device) []Device {
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		if Visible(d) {
			out = append(out, d)
		}
	}
	return out
}

// SortDevices orders connected first, then paired, then by name.
// Equal keys keep their input order.
func SortDevices(devices []Device) {
	sort.SliceStable(devices, func(i, j int) bool {
		a, b := devices[i], devices[j]
		if a.Connected != b.Connected {
			return a.Connected
		}
		if a.Paired != b.Paired {
			return a.Paired
		}
		return a.Name < b.Name
	})
}
