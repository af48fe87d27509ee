package tape

import "fmt"

// The recorder does not store channels in numerical order. storageSlots maps
// a logical channel to its slot inside a SampleBlock (channel 8 lives in
// slot 13, 0-based), logicalChannels is its inverse. Both are 0-based.
var (
	storageSlots    = [Channels]int{0, 8, 4, 12, 1, 9, 5, 13, 2, 10, 6, 14, 3, 11, 7, 15}
	logicalChannels = [Channels]int{0, 4, 8, 12, 2, 6, 10, 14, 1, 5, 9, 13, 3, 7, 11, 15}
)

// ValidChannel reports whether channel is a logical channel number (1..16).
func ValidChannel(channel int) bool {
	return channel >= 1 && channel <= Channels
}

// StorageSlot returns the 1-based storage slot holding a 1-based logical channel.
// It panics on out-of-range channels; callers validate channel numbers at
// configuration time.
func StorageSlot(channel int) int {
	return StorageIndex(channel) + 1
}

// LogicalChannel returns the 1-based logical channel stored in a 1-based slot.
func LogicalChannel(slot int) int {
	if !ValidChannel(slot) {
		panic(fmt.Sprintf("tape: storage slot %d out of range", slot))
	}
	return logicalChannels[slot-1] + 1
}

// StorageIndex returns the 0-based slot index of a 1-based logical channel.
func StorageIndex(channel int) int {
	if !ValidChannel(channel) {
		panic(fmt.Sprintf("tape: channel %d out of range", channel))
	}
	return storageSlots[channel-1]
}

// LogicalIndex returns the 0-based logical channel index stored in a 0-based slot.
func LogicalIndex(slot int) int {
	return logicalChannels[slot]
}
