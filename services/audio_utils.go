package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	tcmp3 "github.com/tcolgate/mp3"
)

// MP3Duration cộng thời lượng từng frame, trả về số giây.
// Frame cuối bị cắt cụt thì bỏ qua và giữ phần đã đọc được.
func MP3Duration(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, nil
	}

	dec := tcmp3.NewDecoder(bytes.NewReader(data))
	var (
		total  time.Duration
		frame  tcmp3.Frame
		skip   int
		frames int
	)
	for {
		err := dec.Decode(&frame, &skip)
		if errors.Is(err, io.EOF) || (errors.Is(err, io.ErrUnexpectedEOF) && frames > 0) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("decode mp3 frame %d: %w", frames, err)
		}
		total += frame.Duration()
		frames++
	}
	return total.Seconds(), nil
}
