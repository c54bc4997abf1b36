// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import "code.hybscloud.com/atomix"

// serialCounter is the global monotonic counter for group serials, which
// identify join groups in invariant-violation panics.
var serialCounter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() uint32 {
	return serialCounter.Add(1)
}
