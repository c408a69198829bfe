package internal

import "time"

// Move 一次文件移动（或预览模式下计划中的移动）
type Move struct {
	Source      string
	Destination string
	Rule        string
	Folder      string
	Size        int64
	Renamed     bool
}

// PhaseStats 单个阶段的处理统计
type PhaseStats struct {
	Phase   string
	DryRun  bool
	Scanned int
	Moved   int
	Skipped int
	Renamed int
	Bytes   int64
	Moves   []Move
}

func (s *PhaseStats) Record(m Move) {
	s.Moved++
	s.Bytes += m.Size
	if m.Renamed {
		s.Renamed++
	}
	s.Moves = append(s.Moves, m)
}

// RunStats 一次完整运行（归档 + 整理）的统计
type RunStats struct {
	Archive   *PhaseStats
	Organize  *PhaseStats
	DryRun    bool
	StartTime time.Time
	EndTime   time.Time
}
