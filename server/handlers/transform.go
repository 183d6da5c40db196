package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rbmfprocessor/transform"
)

// TransformHandler обработчик преобразования загруженной книги
type TransformHandler struct {
	transformer *transform.Transformer
	workDir     string
}

// NewTransformHandler создает новый обработчик преобразования.
// workDir каталог для временных файлов загрузки.
func NewTransformHandler(transformer *transform.Transformer, workDir string) *TransformHandler {
	return &TransformHandler{transformer: transformer, workDir: workDir}
}

// HandleTransform обработчик загрузки и преобразования квартальной книги
// @Summary Преобразовать квартальную книгу в полугодовой отчет
// @Description Принимает xlsx-файл, возвращает книгу с итоговым листом RBMF
// @Tags transform
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param file formData file true "Квартальная книга xlsx"
// @Param steps formData bool false "Добавить промежуточные листы RBMF_1 и RBMF_2"
// @Param filter formData bool false "Проредить целевые значения показателей"
// @Success 200 {file} binary "Итоговая книга"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 422 {object} ErrorResponse "Книга не поддается обработке"
// @Router /api/transform [post]
func (h *TransformHandler) HandleTransform(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		SendJSONError(c, http.StatusBadRequest, "file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		SendJSONError(c, http.StatusBadRequest, "only Excel files are supported")
		return
	}

	opts := transform.Options{
		IncludeSteps: c.PostForm("steps") == "true",
		ApplyFilter:  c.PostForm("filter") == "true",
	}

	// Загрузку и результат держим в каталоге одного запроса
	requestDir := filepath.Join(h.workDir, uuid.New().String())
	if err := os.MkdirAll(requestDir, 0o755); err != nil {
		SendJSONError(c, http.StatusInternalServerError, "failed to create working directory")
		return
	}
	defer os.RemoveAll(requestDir)

	srcPath := filepath.Join(requestDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, srcPath); err != nil {
		SendJSONError(c, http.StatusInternalServerError, "failed to save uploaded file")
		return
	}

	dstName := outputFileName(fileHeader.Filename)
	dstPath := filepath.Join(requestDir, dstName)

	if _, err := h.transformer.TransformFile(srcPath, dstPath, opts); err != nil {
		SendJSONError(c, http.StatusUnprocessableEntity, "failed to transform workbook: "+err.Error())
		return
	}

	c.FileAttachment(dstPath, dstName)
}

// outputFileName имя итогового файла по имени исходного
func outputFileName(sourceName string) string {
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	return base + "_halfyear.xlsx"
}
