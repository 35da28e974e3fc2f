package xhash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Sum 返回 data 的内容哈希，16 个十六进制字符。
// 空输入是合法的：空内容同样映射到一个确定的 key。
func Sum(data []byte) string {
	return format(xxhash.Sum64(data))
}

// SumString 返回 s 的内容哈希，等价于 Sum([]byte(s)) 但无拷贝。
func SumString(s string) string {
	return format(xxhash.Sum64String(s))
}

// SumReader 流式计算 r 的内容哈希，适用于不宜整体载入内存的大模型文件。
func SumReader(r io.Reader) (string, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return "", fmt.Errorf("xhash: read: %w", err)
	}
	return format(d.Sum64()), nil
}

// Join 把多个部分组合成一个哈希 key。
// 各部分带长度前缀后参与哈希，避免 ("ab","c") 与 ("a","bc") 这类
// 拼接歧义产生碰撞。典型用法是模型哈希 + 编译参数。
func Join(parts ...string) string {
	d := xxhash.New()
	var buf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(p)))
		d.Write(buf[:])    //nolint:errcheck // xxhash.Digest.Write 不会失败
		d.WriteString(p)   //nolint:errcheck
	}
	return format(d.Sum64())
}

func format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
