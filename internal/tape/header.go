package tape

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidHeader indicates a header record that cannot be decoded.
var ErrInvalidHeader = errors.New("invalid tape header")

// Header is the 128-byte record at the start of the header sector.
// Time and date fields hold one decimal digit per byte, least significant first.
type Header struct {
	FileNum  uint16
	_        int16
	FileSize int16
	_        int16
	Mpx      uint8
	DataType uint8 // always 1 on known tapes
	BCDTime  [bcdDigits]uint8
	BCDDate  [bcdDigits]uint8
	Gain     [gainFields]uint8
	_        [headerPadSize]uint8
}

// ParseHeader decodes the header record from the start of src.
func ParseHeader(src []byte) (*Header, error) {
	if len(src) < HeaderRecordSize {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidHeader, HeaderRecordSize, len(src))
	}

	var h Header
	if err := binary.Read(bytes.NewReader(src[:HeaderRecordSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return &h, nil
}

// RecordedAt returns the recording start time stored in the header.
// Only two year digits are recorded: years above 19 are taken as 19xx.
func (h *Header) RecordedAt() (time.Time, error) {
	for i := range bcdDigits {
		if h.BCDDate[i] > bcdMaxDigit || h.BCDTime[i] > bcdMaxDigit {
			return time.Time{}, fmt.Errorf("%w: non-decimal digit in date/time", ErrInvalidHeader)
		}
	}

	year := digitPair(h.BCDDate[1], h.BCDDate[0])
	if year > centuryPivot {
		year += century19
	} else {
		year += century20
	}
	month := digitPair(h.BCDDate[5], h.BCDDate[4])
	day := digitPair(h.BCDDate[3], h.BCDDate[2])
	hour := digitPair(h.BCDTime[5], h.BCDTime[4])
	minute := digitPair(h.BCDTime[3], h.BCDTime[2])
	second := digitPair(h.BCDTime[1], h.BCDTime[0])

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes out-of-range fields; reject them instead.
	if t.Month() != time.Month(month) || t.Day() != day || t.Hour() != hour ||
		t.Minute() != minute || t.Second() != second {
		return time.Time{}, fmt.Errorf("%w: date %04d-%02d-%02d %02d:%02d:%02d out of range",
			ErrInvalidHeader, year, month, day, hour, minute, second)
	}
	return t, nil
}

func digitPair(tens, ones uint8) int {
	return int(tens)*decimalBase + int(ones)
}
