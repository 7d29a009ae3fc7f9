package model

// DeviceRecord is one row of the inventory: a device and how to reach it.
type DeviceRecord struct {
	Name         string
	ManagementIP string
	Username     string
	Password     string
}
