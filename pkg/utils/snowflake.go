package utils

import (
	"errors"
	"sync"
	"time"
)

const (
	epoch             = int64(1704067200000)                           // 起始时间戳 (2024-01-01)
	datacenterIDBits  = uint(5)                                        // 数据中心ID位数
	workerIDBits      = uint(5)                                        // 工作节点ID位数
	sequenceBits      = uint(12)                                       // 序列号位数
	maxDatacenterID   = int64(-1 ^ (-1 << datacenterIDBits))           // 最大数据中心ID
	maxWorkerID       = int64(-1 ^ (-1 << workerIDBits))               // 最大工作节点ID
	maxSequence       = int64(-1 ^ (-1 << sequenceBits))               // 最大序列号
	timestampShift    = sequenceBits + workerIDBits + datacenterIDBits // 时间戳左移位数
	datacenterIDShift = sequenceBits + workerIDBits                    // 数据中心ID左移位数
	workerIDShift     = sequenceBits                                   // 工作节点ID左移位数
)

// Snowflake generates time-ordered int64 ids. Later ids always compare
// greater, which the listings rely on as a tie-breaker for equal timestamps.
type Snowflake struct {
	mutex        sync.Mutex
	lastTime     int64
	workerID     int64
	datacenterID int64
	sequence     int64
}

func NewSnowflake(workerID, datacenterID int64) (*Snowflake, error) {
	if workerID < 0 || workerID > maxWorkerID {
		return nil, errors.New("worker ID out of range")
	}
	if datacenterID < 0 || datacenterID > maxDatacenterID {
		return nil, errors.New("datacenter ID out of range")
	}
	return &Snowflake{
		workerID:     workerID,
		datacenterID: datacenterID,
	}, nil
}

func (s *Snowflake) GenerateID() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	currentTime := time.Now().UnixMilli()
	if currentTime < s.lastTime {
		// 时钟回拨，沿用上一次的时间戳
		currentTime = s.lastTime
	}

	if currentTime == s.lastTime {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			// 序列号用完，等待下一毫秒
			for currentTime <= s.lastTime {
				currentTime = time.Now().UnixMilli()
			}
		}
	} else {
		s.sequence = 0
	}

	s.lastTime = currentTime
	return ((currentTime - epoch) << timestampShift) |
		(s.datacenterID << datacenterIDShift) |
		(s.workerID << workerIDShift) |
		s.sequence
}

// ParseID 解析ID获取各部分信息
func (s *Snowflake) ParseID(id int64) (timestamp int64, datacenterID, workerID, sequence int64) {
	timestamp = (id >> timestampShift) + epoch
	datacenterID = (id >> datacenterIDShift) & maxDatacenterID
	workerID = (id >> workerIDShift) & maxWorkerID
	sequence = id & maxSequence
	return
}

var (
	globalSnowflake *Snowflake
	snowflakeOnce   sync.Once
)

// InitSnowflake must be called before the first GenerateID to pick a
// non-default worker; later calls are ignored.
func InitSnowflake(workerID, datacenterID int64) error {
	var err error
	snowflakeOnce.Do(func() {
		globalSnowflake, err = NewSnowflake(workerID, datacenterID)
	})
	return err
}

func GenerateID() int64 {
	if err := InitSnowflake(1, 1); err != nil || globalSnowflake == nil {
		panic("snowflake is not initialized")
	}
	return globalSnowflake.GenerateID()
}
