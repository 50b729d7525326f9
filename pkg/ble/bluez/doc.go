// Package bluez provides the ble.Transport of Linux hosts. Connected
// peripherals and adapter state come from BlueZ over D-Bus, GATT access goes
// through tinygo.org/x/bluetooth. Builds for platforms with neither BlueZ nor
// CoreBluetooth get a Transport that always reports ble.ErrAdapterUnavailable.
package bluez
