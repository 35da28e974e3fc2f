// Package xhash 提供模型内容哈希计算。
//
// 缓存 key 由模型字节流（以及可选的编译参数）哈希得到：同一模型 +
// 同一参数组合映射到同一 key，从而命中同一份缓存产物。使用 xxhash
// （64 位，非加密）：缓存 key 只需要低碰撞率与高吞吐，不需要
// 抗碰撞攻击性。
//
// 基本用法：
//
//	key := xhash.Sum(modelBytes)
//	key := xhash.Join(xhash.Sum(modelBytes), "precision=fp16", "device=gpu")
package xhash
