package meshdata

import "errors"

var (
	// ErrImport 场景文件缺失、不可读或不包含任何网格
	ErrImport = errors.New("import error")
	// ErrFormat 文件魔数不匹配或声明的大小与实际数据不一致
	ErrFormat = errors.New("format error")
	// ErrCapacity LOD 数量超出上限或偏移计数器溢出 32 位
	ErrCapacity = errors.New("capacity error")
)
