package container

// IIndexedItem 支持下标追踪的元素接口
// 功能：定义元素必须实现的下标读写方法
// 说明：元素自己记录在数组中的位置，使删除无需线性查找
type IIndexedItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IndexedItemBase 下标元素基类
// 功能：提供IIndexedItem的基础实现，可作为其他结构体的嵌入字段
type IndexedItemBase struct {
	index int // 元素在数组中的索引
}

// Index 获取元素的索引
func (b *IndexedItemBase) Index() int {
	return b.index
}

// SetIndex 设置元素的索引
func (b *IndexedItemBase) SetIndex(index int) {
	b.index = index
}

// IndexedArray 有序下标数组
// 功能：维护一组互不相同的元素，保持插入顺序，增删立即生效
// 说明：一个元素同一时刻只能属于一个IndexedArray，因为下标存放在元素自身
type IndexedArray[T interface {
	comparable
	IIndexedItem
}] struct {
	data []T // 主数据数组
}

// NewIndexedArray 创建有序下标数组
func NewIndexedArray[T interface {
	comparable
	IIndexedItem
}]() *IndexedArray[T] {
	return &IndexedArray[T]{
		data: make([]T, 0),
	}
}

// Len 获取当前数组长度
func (a *IndexedArray[T]) Len() int {
	return len(a.data)
}

// Data 获取原始数据
// 说明：返回内部切片，调用方不得修改；增删后之前返回的切片可能失效
func (a *IndexedArray[T]) Data() []T {
	return a.data
}

// Contains 判断元素是否在数组中
func (a *IndexedArray[T]) Contains(value T) bool {
	ind := value.Index()
	return ind >= 0 && ind < len(a.data) && a.data[ind] == value
}

// Add 在末尾增加元素
// 返回：元素已存在时返回false
func (a *IndexedArray[T]) Add(value T) bool {
	if a.Contains(value) {
		return false
	}
	value.SetIndex(len(a.data))
	a.data = append(a.data, value)
	return true
}

// Remove 删除元素并保持其余元素的相对顺序
// 功能：删除元素后把其后的所有元素前移一位并更新下标
// 返回：元素不存在时返回false
func (a *IndexedArray[T]) Remove(value T) bool {
	if !a.Contains(value) {
		return false
	}
	ind := value.Index()
	copy(a.data[ind:], a.data[ind+1:])
	var zero T
	a.data[len(a.data)-1] = zero
	a.data = a.data[:len(a.data)-1]
	for i := ind; i < len(a.data); i++ {
		a.data[i].SetIndex(i)
	}
	value.SetIndex(-1)
	return true
}
