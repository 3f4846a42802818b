// Package types 定义公共数据结构
//
// 这是系统最底层的包，不依赖任何其他内部包。所有类型都是纯值类型，
// 用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go        - PeerID
//   - enums.go      - Direction
//   - connection.go - ConnStat
package types
