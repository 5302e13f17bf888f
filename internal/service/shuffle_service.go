package service

import (
	"context"
	"fmt"
	"sort"

	"exam-dashboard-server/internal/model/requestresponse"
	"exam-dashboard-server/internal/ports"
)

// ShuffleService распределяет запрошенное количество вопросов по ячейкам
// матрицы (тема × уровень знаний) с учётом доступности каждой ячейки
// и общего максимума вопросов.
type ShuffleService struct {
	assignmentRepo ports.AssignmentRepository
}

func NewShuffleService(assignmentRepo ports.AssignmentRepository) *ShuffleService {
	return &ShuffleService{assignmentRepo: assignmentRepo}
}

// Distribute раскладывает total вопросов по ячейкам по кругу:
// каждая ячейка получает по одному вопросу за проход, пока не исчерпана
// её доступность или не роздано всё. Ошибка, если суммарной доступности
// не хватает или total превышает общий максимум.
func Distribute(total int, maxCount int, cells []requestresponse.ShuffleCell) ([]requestresponse.ShuffleAllocation, error) {
	if total <= 0 {
		return nil, fmt.Errorf("количество вопросов должно быть положительным")
	}
	if maxCount > 0 && total > maxCount {
		return nil, fmt.Errorf("запрошено %d вопросов при максимуме %d", total, maxCount)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("не выбрано ни одной ячейки")
	}

	available := 0
	for _, cell := range cells {
		if cell.Available < 0 {
			return nil, fmt.Errorf("отрицательная доступность в ячейке %s/%d", cell.Topic, cell.Level)
		}
		available += cell.Available
	}
	if available < total {
		return nil, fmt.Errorf("в выбранных ячейках только %d вопросов, запрошено %d", available, total)
	}

	allocations := make([]requestresponse.ShuffleAllocation, len(cells))
	for i, cell := range cells {
		allocations[i] = requestresponse.ShuffleAllocation{Topic: cell.Topic, Level: cell.Level}
	}

	remaining := total
	for remaining > 0 {
		progressed := false
		for i := range allocations {
			if remaining == 0 {
				break
			}
			if allocations[i].Count < cells[i].Available {
				allocations[i].Count++
				remaining--
				progressed = true
			}
		}
		if !progressed {
			// недостижимо после проверки доступности выше
			return nil, fmt.Errorf("не удалось распределить оставшиеся %d вопросов", remaining)
		}
	}

	return allocations, nil
}

// Validate проверяет распределение, заполненное учителем вручную:
// каждая ячейка в пределах доступности, сумма равна total,
// total не превышает общий максимум.
func Validate(total int, maxCount int, cells []requestresponse.ShuffleCell, allocations []requestresponse.ShuffleAllocation) error {
	if maxCount > 0 && total > maxCount {
		return fmt.Errorf("запрошено %d вопросов при максимуме %d", total, maxCount)
	}

	availableByCell := make(map[string]int, len(cells))
	for _, cell := range cells {
		availableByCell[cellKey(cell.Topic, cell.Level)] = cell.Available
	}

	sum := 0
	for _, allocation := range allocations {
		if allocation.Count < 0 {
			return fmt.Errorf("отрицательное количество в ячейке %s/%d", allocation.Topic, allocation.Level)
		}
		available, ok := availableByCell[cellKey(allocation.Topic, allocation.Level)]
		if !ok {
			return fmt.Errorf("неизвестная ячейка %s/%d", allocation.Topic, allocation.Level)
		}
		if allocation.Count > available {
			return fmt.Errorf("в ячейке %s/%d только %d вопросов, запрошено %d",
				allocation.Topic, allocation.Level, available, allocation.Count)
		}
		sum += allocation.Count
	}

	if sum != total {
		return fmt.Errorf("сумма по ячейкам %d не совпадает с запрошенным количеством %d", sum, total)
	}

	return nil
}

// Cells строит список ячеек доступности по банку вопросов учителя
func (s *ShuffleService) Cells(ctx context.Context, ownerUUID string) ([]requestresponse.ShuffleCell, error) {
	matrix, err := s.assignmentRepo.CountByTopicLevel(ctx, ownerUUID)
	if err != nil {
		return nil, fmt.Errorf("[ShuffleService] не удалось собрать матрицу доступности: %w", err)
	}
	return CellsFromMatrix(matrix), nil
}

// Shuffle строит матрицу доступности по банку вопросов учителя
// и распределяет по ней total вопросов
func (s *ShuffleService) Shuffle(ctx context.Context, ownerUUID string, total int, maxCount int) ([]requestresponse.ShuffleAllocation, error) {
	cells, err := s.Cells(ctx, ownerUUID)
	if err != nil {
		return nil, err
	}

	allocations, err := Distribute(total, maxCount, cells)
	if err != nil {
		return nil, fmt.Errorf("[ShuffleService] %w", err)
	}

	return allocations, nil
}

// CellsFromMatrix разворачивает матрицу доступности в детерминированный
// список ячеек (сортировка по теме, затем по уровню)
func CellsFromMatrix(matrix map[string]map[int]int) []requestresponse.ShuffleCell {
	topics := make([]string, 0, len(matrix))
	for topic := range matrix {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var cells []requestresponse.ShuffleCell
	for _, topic := range topics {
		levels := make([]int, 0, len(matrix[topic]))
		for level := range matrix[topic] {
			levels = append(levels, level)
		}
		sort.Ints(levels)

		for _, level := range levels {
			cells = append(cells, requestresponse.ShuffleCell{
				Topic:     topic,
				Level:     level,
				Available: matrix[topic][level],
			})
		}
	}

	return cells
}

func cellKey(topic string, level int) string {
	return fmt.Sprintf("%s|%d", topic, level)
}
